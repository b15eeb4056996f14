package dto

import "github.com/shopspring/decimal"

// FiltroAnalitica is the common query filter of the analytics endpoints.
// Empty values mean "Todos".
type FiltroAnalitica struct {
	Vendedor string `form:"vendedor"`
	Mes      string `form:"mes"` // YYYY-MM
}

// ─── Resumen ─────────────────────────────────────────────────────────────────

type ResumenKPI struct {
	TotalVentas       decimal.Decimal `json:"total_ventas"` // remisiones, neto
	TotalDevoluciones decimal.Decimal `json:"total_devoluciones"`
	TotalNotasCredito decimal.Decimal `json:"total_notas_credito"`
	VentasNetas       decimal.Decimal `json:"ventas_netas"` // ventas − devoluciones
	NumDocumentos     int             `json:"num_documentos"`
	TicketPromedio    decimal.Decimal `json:"ticket_promedio"`
	DescuentoPct      float64         `json:"descuento_pct"`
	Efectividad       float64         `json:"efectividad"`
	TasaDevolucion    float64         `json:"tasa_devolucion"`
}

// ─── Series ──────────────────────────────────────────────────────────────────

type PuntoMensual struct {
	Mes           string          `json:"mes"` // YYYY-MM
	ValorNeto     decimal.Decimal `json:"valor_neto"`
	NumDocumentos int             `json:"num_documentos"`
}

type PuntoDiaSemana struct {
	Dia           string          `json:"dia"` // Lunes … Domingo
	ValorNeto     decimal.Decimal `json:"valor_neto"`
	NumDocumentos int             `json:"num_documentos"`
}

type PuntoZona struct {
	Zona        string          `json:"zona"`
	ValorNeto   decimal.Decimal `json:"valor_neto"`
	NumClientes int             `json:"num_clientes"`
}

type PuntoFormaPago struct {
	FormaPago     string          `json:"forma_pago"`
	ValorNeto     decimal.Decimal `json:"valor_neto"`
	Participacion float64         `json:"participacion"` // % del total
}

type ClienteTop struct {
	Cliente       string          `json:"cliente"`
	ValorNeto     decimal.Decimal `json:"valor_neto"`
	NumDocumentos int             `json:"num_documentos"`
}

type PuntoDiario struct {
	Fecha         string          `json:"fecha"` // YYYY-MM-DD
	ValorNeto     decimal.Decimal `json:"valor_neto"`
	NumDocumentos int             `json:"num_documentos"`
}

// ─── Impactados ──────────────────────────────────────────────────────────────

type ImpactadosMes struct {
	Mes               string  `json:"mes"`
	Impactados        int     `json:"impactados"`
	PorcentajeImpacto float64 `json:"porcentaje_impacto"` // 0 cuando no hay denominador
}

type ImpactadosResponse struct {
	Series        []ImpactadosMes `json:"series"`
	PromedioPct   float64         `json:"promedio_pct"`
	TotalClientes int             `json:"total_clientes"` // clientes asignados al vendedor
}

// ─── Días sin venta ──────────────────────────────────────────────────────────

type ClienteSinVenta struct {
	Cliente             string          `json:"cliente"`
	Dias                int             `json:"dias"`
	ValorTotalHistorico decimal.Decimal `json:"valor_total_historico"`
	UltimaFecha         string          `json:"ultima_fecha"` // YYYY-MM-DD
	Categoria           string          `json:"categoria"`    // 1-29 | 30-59 | 60-89 | 90-179 | 180+
}
