package dto

import "github.com/shopspring/decimal"

// RFMScore is one scored client. Scores are quintiles 1..5; trend metrics are
// percentages at full precision except where rounded for presentation.
type RFMScore struct {
	Cliente       string          `json:"cliente"`
	R             int             `json:"r"`
	F             int             `json:"f"`
	M             int             `json:"m"`
	T             int             `json:"t"`
	RFMScore      string          `json:"rfm_score"` // "RFMT", p.ej. "5432"
	RFMNumeric    float64         `json:"rfm_numeric"`
	Categoria     string          `json:"categoria"`
	Recomendacion string          `json:"recomendacion"`
	Color         string          `json:"color"`
	CAGR6m        float64         `json:"cagr_6m"`
	Var3m         float64         `json:"var_3m"`
	VarReciente   float64         `json:"var_reciente"`
	Consistencia  float64         `json:"consistencia"`
	RecencyDias   int             `json:"recency_dias"`
	Frecuencia    int             `json:"frecuencia"`
	Monetario     decimal.Decimal `json:"monetario"`
}

// ─── Insights ────────────────────────────────────────────────────────────────

type RFMKPIs struct {
	TotalClientes       int     `json:"total_clientes"`
	TicketPromedio      float64 `json:"ticket_promedio"`
	CAGRPromedio        float64 `json:"cagr_promedio"`
	RecencyPromedio     float64 `json:"recency_promedio"`
	ClientesCreciendo   int     `json:"clientes_creciendo"`   // CAGR_6m > 5
	ClientesDecreciendo int     `json:"clientes_decreciendo"` // CAGR_6m < −5
}

type CategoriaResumen struct {
	Categoria     string          `json:"categoria"`
	Clientes      int             `json:"clientes"`
	Participacion float64         `json:"participacion"` // % de clientes
	Ingresos      decimal.Decimal `json:"ingresos"`
	Color         string          `json:"color"`
}

type TendenciaResumen struct {
	Creciendo           int             `json:"creciendo"`
	Decreciendo         int             `json:"decreciendo"`
	IngresosCreciendo   decimal.Decimal `json:"ingresos_creciendo"`
	IngresosDecreciendo decimal.Decimal `json:"ingresos_decreciendo"`
}

type Alerta struct {
	Nivel   string `json:"nivel"` // critica | alta
	Mensaje string `json:"mensaje"`
}

type RFMInsights struct {
	KPIs            RFMKPIs            `json:"kpis"`
	Distribucion    []CategoriaResumen `json:"distribucion"`
	Tendencia       TendenciaResumen   `json:"tendencia"`
	Oportunidades   []RFMScore         `json:"oportunidades"`
	Alertas         []Alerta           `json:"alertas"`
	Recomendaciones []string           `json:"recomendaciones"`
}
