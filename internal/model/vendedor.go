package model

// VendedorDesconocido tags sales whose vendor code has no catalog entry.
// The row is kept; only the name is degraded.
const VendedorDesconocido = "Desconocido"

// Maestros bundles the master lookup tables read from maestros/*.
type Maestros struct {
	TiposDocumento    map[string]string // codigo -> nombre ("Remision", "Devolucion", …)
	CodigosVendedores map[string]string // codigo -> nombre
	VendedoresActivos []string          // nombres; only these participate in ranking
	FormasPago        map[string]string // codigo -> etiqueta
	CodigosLabs       map[string]string // codigo -> laboratorio
}

// ActivoVendedor reports whether a vendor name is in the active set.
func (m Maestros) ActivoVendedor(nombre string) bool {
	for _, v := range m.VendedoresActivos {
		if v == nombre {
			return true
		}
	}
	return false
}

// ActividadDia is one day of per-vendor sales activity from
// analisis_vendedores: amounts broken down by provider, client and product.
type ActividadDia struct {
	Fecha       string // YYYYMMDD
	Proveedores map[string]float64
	Clientes    map[string]float64
	Productos   map[string]float64
}
