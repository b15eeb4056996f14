package store

import (
	"testing"

	"emesanalytics/internal/model"

	"github.com/stretchr/testify/assert"
)

func ventasPrueba() []model.Venta {
	return []model.Venta{
		{DocumentoID: "D1", Vendedor: "V1", Mes: "2025-07"},
		{DocumentoID: "D2", Vendedor: "V1", Mes: "2025-08"},
		{DocumentoID: "D3", Vendedor: "V2", Mes: "2025-07"},
	}
}

func TestFiltrarVentas(t *testing.T) {
	rows := ventasPrueba()

	assert.Len(t, FiltrarVentas(rows, Todos, Todos), 3)
	assert.Len(t, FiltrarVentas(rows, "", ""), 3)
	assert.Len(t, FiltrarVentas(rows, "V1", Todos), 2)
	assert.Len(t, FiltrarVentas(rows, Todos, "2025-07"), 2)

	filtrado := FiltrarVentas(rows, "V1", "2025-07")
	assert.Len(t, filtrado, 1)
	assert.Equal(t, "D1", filtrado[0].DocumentoID)

	assert.Empty(t, FiltrarVentas(rows, "V9", "2025-07"))
	assert.Empty(t, FiltrarVentas(rows, "V1", "2030-01"))
}

func TestFiltrarVentasNoMutaOriginal(t *testing.T) {
	rows := ventasPrueba()
	copia := FiltrarVentas(rows, Todos, Todos)
	copia[0].Vendedor = "X"
	assert.Equal(t, "V1", rows[0].Vendedor)
}

func TestStoreInstall(t *testing.T) {
	s := New()
	antes := s.Current()
	assert.EqualValues(t, 0, antes.Generation)

	nuevo := NewEmptySnapshot()
	nuevo.Generation = 1
	nuevo.Ventas = ventasPrueba()
	s.Install(nuevo)

	// El lector que ya tenía la referencia sigue viendo la generación previa.
	assert.EqualValues(t, 0, antes.Generation)
	assert.EqualValues(t, 1, s.Current().Generation)
	assert.Len(t, s.Current().Ventas, 3)
}
