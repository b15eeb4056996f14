package service

import (
	"testing"

	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compra(codigo, razon string, ventas, devVentas, stock float64) model.Compra {
	c := model.Compra{
		Codigo:      codigo,
		Descripcion: "Producto " + codigo,
		Razon:       razon,
		Compras:     ventas * 2,
		Ventas:      ventas,
		DevVentas:   devVentas,
		Stock:       stock,
		CostoStock:  stock * 3,
	}
	c.CalcularDerivados()
	return c
}

func comprasPrueba(rows []model.Compra) ComprasService {
	st := instalar(nil, func(snap *store.Snapshot) { snap.Compras = rows })
	return NewComprasService(st)
}

func TestComprasResumen(t *testing.T) {
	svc := comprasPrueba([]model.Compra{
		compra("A", "LabUno", 100, 0, 10), // rotación 10, crítico
		compra("B", "LabUno", 60, 10, 20), // rotación 2.5
		compra("C", "LabDos", 30, 0, 25),  // otro laboratorio
		compra("D", "LabUno", 0, 0, 50),   // sin demanda
	})

	r := svc.Resumen("LabUno")
	assert.Equal(t, 3, r.NumProductos)
	assert.InDelta(t, 150.0, r.VentasNetas, 0.001)
	assert.InDelta(t, 240.0, r.ValorStock, 0.001)
	assert.Equal(t, 1, r.NumCriticos)
	assert.InDelta(t, (10.0+2.5+0)/3, r.RotacionPromedio, 0.01)
	assert.Equal(t, 1, r.PorRotacion["Alta"])
	assert.Equal(t, 1, r.PorRotacion["Baja"])
	assert.Equal(t, 1, r.PorRotacion["Muy Baja"])
}

func TestComprasResumenTodos(t *testing.T) {
	svc := comprasPrueba([]model.Compra{
		compra("A", "LabUno", 100, 0, 10),
		compra("C", "LabDos", 30, 0, 25),
	})
	assert.Equal(t, 2, svc.Resumen(store.Todos).NumProductos)
	assert.Zero(t, svc.Resumen("NoExiste").NumProductos)
}

func TestComprasCriticos(t *testing.T) {
	svc := comprasPrueba([]model.Compra{
		compra("A", "LabUno", 100, 0, 10), // DI = 3
		compra("B", "LabUno", 120, 0, 8),  // DI = 2
		compra("C", "LabUno", 30, 0, 200), // no crítico
	})

	out := svc.Criticos("LabUno", 0)
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].Codigo)
	assert.Equal(t, "A", out[1].Codigo)

	assert.Len(t, svc.Criticos("LabUno", 1), 1)
}

func TestClasificarUrgencia(t *testing.T) {
	assert.Equal(t, "Baja", clasificarUrgencia(compra("D", "L", 0, 0, 50))) // sin demanda
	assert.Equal(t, "Crítica", clasificarUrgencia(compra("A", "L", 100, 0, 10)))
	assert.Equal(t, "Alta", clasificarUrgencia(compra("B", "L", 60, 0, 20)))  // DI = 10
	assert.Equal(t, "Media", clasificarUrgencia(compra("C", "L", 30, 0, 25))) // DI = 25
	assert.Equal(t, "Baja", clasificarUrgencia(compra("E", "L", 30, 0, 100))) // DI = 100
}

func TestComprasAgotadoConVentasEsCritico(t *testing.T) {
	c := compra("E", "LabUno", 90, 0, 0)
	assert.InDelta(t, 90.0, c.Rotacion, 0.001)
	assert.True(t, c.Critico)
	assert.Zero(t, c.DiasInventario)

	svc := comprasPrueba([]model.Compra{c})
	assert.Equal(t, 1, svc.Resumen("LabUno").NumCriticos)

	urg := svc.Urgencia("LabUno")
	require.Len(t, urg, 1)
	assert.Equal(t, "Crítica", urg[0].Urgencia)
}

func TestComprasUrgenciaOrden(t *testing.T) {
	svc := comprasPrueba([]model.Compra{
		compra("Media", "LabUno", 30, 0, 25),
		compra("Critica", "LabUno", 100, 0, 10),
		compra("Baja", "LabUno", 30, 0, 100),
		compra("Alta", "LabUno", 60, 0, 20),
	})

	out := svc.Urgencia("LabUno")
	require.Len(t, out, 4)
	assert.Equal(t, []string{"Crítica", "Alta", "Media", "Baja"}, []string{
		out[0].Urgencia, out[1].Urgencia, out[2].Urgencia, out[3].Urgencia,
	})
	assert.Equal(t, "Critica", out[0].Codigo)
}
