package dto

// ResumenCompras aggregates the monthly purchases fact, optionally filtered
// by laboratorio.
type ResumenCompras struct {
	NumProductos     int            `json:"num_productos"`
	NumCriticos      int            `json:"num_criticos"`
	ComprasNetas     float64        `json:"compras_netas"`
	VentasNetas      float64        `json:"ventas_netas"`
	ValorStock       float64        `json:"valor_stock"`
	RotacionPromedio float64        `json:"rotacion_promedio"`
	PorRotacion      map[string]int `json:"por_rotacion"` // Muy Baja | Baja | Media | Alta
}

type ProductoCritico struct {
	Codigo            string  `json:"codigo"`
	Descripcion       string  `json:"descripcion"`
	Laboratorio       string  `json:"laboratorio"`
	Stock             float64 `json:"stock"`
	VentasNetas       float64 `json:"ventas_netas"`
	Rotacion          float64 `json:"rotacion"`
	DiasInventario    float64 `json:"dias_inventario"`
	CategoriaRotacion string  `json:"categoria_rotacion"`
}

// UrgenciaProducto is the replenishment feature record consumed by the
// forecasting model; only the rule-based classification lives here.
type UrgenciaProducto struct {
	Codigo         string  `json:"codigo"`
	Descripcion    string  `json:"descripcion"`
	Laboratorio    string  `json:"laboratorio"`
	Urgencia       string  `json:"urgencia"` // Crítica | Alta | Media | Baja
	Stock          float64 `json:"stock"`
	VentasNetas    float64 `json:"ventas_netas"`
	Rotacion       float64 `json:"rotacion"`
	DiasInventario float64 `json:"dias_inventario"`
}
