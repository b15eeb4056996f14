package dto

// EvaluacionVendedor is the composite score record of one vendor for the
// evaluated period. Every pillar is normalized to [0, 100].
type EvaluacionVendedor struct {
	Vendedor string `json:"vendedor"`
	Posicion int    `json:"posicion"`

	Eficiencia float64 `json:"eficiencia"`
	Calidad    float64 `json:"calidad"`
	Score      float64 `json:"score"` // distribución, ya mezclado con percentil de volumen
	ScoreTotal float64 `json:"score_total"`

	CumplimientoCuota          float64 `json:"cumplimiento_cuota"`
	CrecimientoVentas          float64 `json:"crecimiento_ventas"`
	CumplimientoConvenios      float64 `json:"cumplimiento_convenios"`
	TasaRecaudo                float64 `json:"tasa_recaudo"`
	ProfundidadPortafolio      float64 `json:"profundidad_portafolio"`
	DiversificacionProveedores float64 `json:"diversificacion_proveedores"`
	SensibilidadClientes       float64 `json:"sensibilidad_clientes"`
	TasaDevolucionesInv        float64 `json:"tasa_devoluciones_inv"`
	ScoreProductos             float64 `json:"score_productos"`
	ScoreClientes              float64 `json:"score_clientes"`
	ScoreProveedores           float64 `json:"score_proveedores"`
	VolumePercentile           float64 `json:"volume_percentile"`

	CategoriaDesempeno string `json:"categoria_desempeno"`
	AnalisisBreve      string `json:"analisis_breve"`
}

// EvolucionPunto is one month of the historical score evolution.
type EvolucionPunto struct {
	Mes        string  `json:"mes"` // YYYY-MM
	Eficiencia float64 `json:"eficiencia"`
	Calidad    float64 `json:"calidad"`
	ScoreTotal float64 `json:"score_total"`
}
