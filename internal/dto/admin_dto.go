package dto

// EstadoResponse describes the installed snapshot for GET /v1/admin/estado.
type EstadoResponse struct {
	Generacion uint64            `json:"generacion"`
	CargadoEn  string            `json:"cargado_en"` // RFC 3339
	Filas      map[string]int    `json:"filas"`
	Descartes  map[string]int    `json:"descartes"`
	Errores    map[string]string `json:"errores"`
	Vendedores []string          `json:"vendedores"`
	Meses      []string          `json:"meses"`
}

// ReloadResponse confirms a forced reload.
type ReloadResponse struct {
	Generacion uint64 `json:"generacion"`
	Ventas     int    `json:"ventas"`
	Clientes   int    `json:"clientes"`
	Compras    int    `json:"compras"`
}
