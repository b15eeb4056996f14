package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Venta is one normalized line of a sales document from ventas_vendedor.
// Rows are immutable after load; re-ingesting the same document is a no-op
// because documento_id is the stable identity.
type Venta struct {
	DocumentoID     string
	Vendedor        string // resolved name, "Desconocido" when the code has no catalog entry
	Cliente         string
	Razon           string // commercial name
	NIT             string // digits only
	ClienteCompleto string // "nombre – razon", or nombre when razon is empty
	Fecha           time.Time
	Mes             string // YYYY-MM
	MesNombre       string // "2025-07 Julio"
	DiaSemana       string // Lunes … Domingo
	Tipo            string
	ValorBruto      decimal.Decimal
	Descuento       decimal.Decimal
	IVA             decimal.Decimal
	ValorNeto       decimal.Decimal // valor_bruto − descuento; negative for returns
	FormaPago       string
	Zona            string
	Subzona         string
	CupoCredito     decimal.Decimal
}

// Document type predicates. Source systems are inconsistent about accents and
// casing, so matching is case-insensitive on the stem.
func (v Venta) EsRemision() bool {
	t := strings.ToLower(v.Tipo)
	return strings.Contains(t, "remision") || strings.Contains(t, "remisión") || strings.Contains(t, "factura")
}

func (v Venta) EsDevolucion() bool {
	t := strings.ToLower(v.Tipo)
	return strings.Contains(t, "devolucion") || strings.Contains(t, "devolución")
}

func (v Venta) EsNotaCredito() bool {
	t := strings.ToLower(v.Tipo)
	return strings.Contains(t, "nota") && (strings.Contains(t, "credito") || strings.Contains(t, "crédito"))
}
