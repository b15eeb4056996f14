package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recibo is one cash-collection receipt (recibos_caja).
type Recibo struct {
	ReciboID string
	ID1      string // client id
	Vendedor string
	Fecha    time.Time
	Mes      string // YYYY-MM
	Valor    decimal.Decimal
}
