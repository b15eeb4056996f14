package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Convenio is a confirmed purchase agreement with a client: a target value
// and an agreed discount percentage over a period window.
type Convenio struct {
	NIT           string
	ClienteNombre string
	Razon         string
	Vendedor      string
	Estado        string
	DescuentoPct  float64 // agreed discount, 0..100
	TargetValue   decimal.Decimal
	FechaInicio   time.Time
	FechaFin      time.Time
	Observaciones string
}

func (c Convenio) Confirmado() bool { return c.Estado == "Confirmado" }
