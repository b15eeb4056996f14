package dto

import "github.com/shopspring/decimal"

// CumplimientoCuota is the quota-compliance view of one vendor for one month.
type CumplimientoCuota struct {
	Vendedor            string          `json:"vendedor"`
	Mes                 string          `json:"mes"` // YYYY-MM
	Cuota               decimal.Decimal `json:"cuota"`
	VentasReales        decimal.Decimal `json:"ventas_reales"`
	CumplimientoPct     float64         `json:"cumplimiento_pct"`
	ProgresoEsperadoPct float64         `json:"progreso_esperado_pct"`
	MetaEsperada        decimal.Decimal `json:"meta_esperada"`
	Estado              string          `json:"estado"` // Cumplido | Adelantado | Cumpliendo | Atrasado | No Cumplió
	Color               string          `json:"color"`
	DiasMes             int             `json:"dias_mes"`
	DiasTranscurridos   int             `json:"dias_transcurridos"`
	MesFinalizado       bool            `json:"mes_finalizado"`
}

// ProgresoConvenio is the progress view of one agreement. Discount compliance
// is reported alongside, never blended into the estado.
type ProgresoConvenio struct {
	NIT                   string          `json:"nit"`
	Cliente               string          `json:"cliente"`
	Razon                 string          `json:"razon"`
	Vendedor              string          `json:"vendedor"`
	TargetValue           decimal.Decimal `json:"target_value"`
	VentasReales          decimal.Decimal `json:"ventas_reales"`
	ProgresoMetaPct       float64         `json:"progreso_meta_pct"`
	ProgresoEsperadoPct   float64         `json:"progreso_esperado_pct"`
	CumplimientoMeta      bool            `json:"cumplimiento_meta"`
	Estado                string          `json:"estado"` // Cumplió | Adelantado | Cerca | Atrasado
	Color                 string          `json:"color"`
	DescuentoRealPct      float64         `json:"descuento_real_pct"`
	DescuentoPactadoPct   float64         `json:"descuento_pactado_pct"`
	CumplimientoDescuento bool            `json:"cumplimiento_descuento"`
	DiferenciaDescuento   float64         `json:"diferencia_descuento"`
}

// ─── Recaudo ─────────────────────────────────────────────────────────────────

type RecaudoDia struct {
	Fecha      string          `json:"fecha"` // YYYY-MM-DD
	Valor      decimal.Decimal `json:"valor"`
	NumRecibos int             `json:"num_recibos"`
}

type RecaudoMes struct {
	Mes        string          `json:"mes"` // YYYY-MM
	Valor      decimal.Decimal `json:"valor"`
	NumRecibos int             `json:"num_recibos"`
}

type RecaudoResponse struct {
	PorDia      []RecaudoDia    `json:"por_dia"`
	PorMes      []RecaudoMes    `json:"por_mes"`
	Total       decimal.Decimal `json:"total"`
	TasaRecaudo float64         `json:"tasa_recaudo"` // min(100, recibos/ventas_netas×100)
}
