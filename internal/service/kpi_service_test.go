package service

import (
	"testing"
	"time"

	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Escenario base: tres documentos de V1 en julio 2025, uno de ellos una
// devolución.
func ventasJulio() []model.Venta {
	return []model.Venta{
		venta("D1", "V1", "Farmacia Sol", "2025-07-02", "Remision", 1000, 0),
		venta("D2", "V1", "Farmacia Sol", "2025-07-15", "Remision", 500, 0),
		venta("D3", "V1", "Farmacia Sol", "2025-07-20", "Devolucion", -200, 0),
	}
}

func TestResumenEfectividad(t *testing.T) {
	svc := NewKPIService(instalar(ventasJulio(), nil))

	r := svc.Resumen("V1", "2025-07")
	assert.Equal(t, "1500", r.TotalVentas.String())
	assert.Equal(t, "200", r.TotalDevoluciones.String())
	assert.Equal(t, "1300", r.VentasNetas.String())
	assert.Equal(t, 2, r.NumDocumentos)
	assert.InDelta(t, 86.67, r.Efectividad, 0.01)
	assert.InDelta(t, 13.33, r.TasaDevolucion, 0.01)
	assert.Equal(t, "750", r.TicketPromedio.String())
}

func TestResumenVacio(t *testing.T) {
	svc := NewKPIService(instalar(nil, nil))

	r := svc.Resumen("V1", "2025-07")
	assert.True(t, r.TotalVentas.IsZero())
	assert.Zero(t, r.Efectividad)
	assert.Zero(t, r.TasaDevolucion)
}

// Devolución con signo positivo: sigue contando como devolución por su valor
// absoluto.
func TestDevolucionSignoPositivo(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "C1", "2025-07-02", "Remision", 1500, 0),
		venta("D2", "V1", "C1", "2025-07-20", "Devolución", 200, 0),
	}
	svc := NewKPIService(instalar(rows, nil))

	r := svc.Resumen("V1", "2025-07")
	assert.Equal(t, "200", r.TotalDevoluciones.String())
	assert.InDelta(t, 86.67, r.Efectividad, 0.01)
}

// Invariante 1: la suma por zonas, la suma de todos los clientes top y la
// suma del hecho filtrado coinciden.
func TestSumasCoherentes(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "C1", "2025-07-02", "Remision", 1000, 100),
		venta("D2", "V1", "C2", "2025-07-03", "Remision", 700, 0),
		venta("D3", "V2", "C3", "2025-07-04", "Remision", 300, 50),
		venta("D4", "V1", "C1", "2025-08-01", "Remision", 450, 0),
	}
	rows[0].Zona = "Norte"
	rows[1].Zona = "Sur"
	rows[2].Zona = "Norte"
	rows[3].Zona = "Norte"
	st := instalar(rows, nil)
	svc := NewKPIService(st)

	var esperado decimal.Decimal
	for _, v := range remisiones(store.FiltrarVentas(rows, store.Todos, "2025-07")) {
		esperado = esperado.Add(v.ValorNeto)
	}

	var porZona decimal.Decimal
	for _, z := range svc.TotalesPorZona(store.Todos, "2025-07") {
		porZona = porZona.Add(z.ValorNeto)
	}
	var porCliente decimal.Decimal
	for _, c := range svc.TopClientes(store.Todos, "2025-07", 0) {
		porCliente = porCliente.Add(c.ValorNeto)
	}

	assert.True(t, esperado.Equal(porZona), "zonas: %s vs %s", porZona, esperado)
	assert.True(t, esperado.Equal(porCliente), "clientes: %s vs %s", porCliente, esperado)
}

// Invariante 2: la serie mensual de un vendedor suma lo mismo que su
// agregado sin filtrar por mes.
func TestSerieMensualConsistente(t *testing.T) {
	svc := NewKPIService(instalar(ventasJulio(), nil))

	serie := svc.SerieMensual("V1")
	require.Len(t, serie, 1)
	assert.Equal(t, "2025-07", serie[0].Mes)
	assert.Equal(t, "1300", serie[0].ValorNeto.String())
	assert.Equal(t, 2, serie[0].NumDocumentos)

	r := svc.Resumen("V1", store.Todos)
	assert.True(t, serie[0].ValorNeto.Equal(r.VentasNetas))
}

func TestDistribucionDiaSemanaOrdenada(t *testing.T) {
	svc := NewKPIService(instalar(ventasJulio(), nil))

	dias := svc.DistribucionDiaSemana("V1", "2025-07")
	require.Len(t, dias, 7)
	assert.Equal(t, "Lunes", dias[0].Dia)
	assert.Equal(t, "Domingo", dias[6].Dia)
	// 2025-07-02 es miércoles y 2025-07-15 martes.
	assert.Equal(t, "500", dias[1].ValorNeto.String())
	assert.Equal(t, "1000", dias[2].ValorNeto.String())

	assert.Empty(t, svc.DistribucionDiaSemana("V1", "2030-01"))
}

func TestTopClientesCabecera(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "C1", "2025-07-02", "Remision", 100, 0),
		venta("D2", "V1", "C2", "2025-07-03", "Remision", 900, 0),
		venta("D3", "V1", "C3", "2025-07-04", "Remision", 500, 0),
	}
	svc := NewKPIService(instalar(rows, nil))

	top := svc.TopClientes("V1", store.Todos, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "C2", top[0].Cliente)
	assert.Equal(t, "C3", top[1].Cliente)
}

func TestClientesImpactados(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "C1", "2025-07-02", "Remision", 100, 0),
		venta("D2", "V1", "C2", "2025-07-03", "Remision", 200, 0),
		venta("D3", "V1", "C1", "2025-08-04", "Remision", 300, 0),
	}
	st := instalar(rows, func(snap *store.Snapshot) {
		snap.NumClientes = map[string]int{"V1": 10}
	})
	svc := NewKPIService(st)

	r := svc.ClientesImpactados("V1")
	require.Len(t, r.Series, 2)
	assert.Equal(t, 2, r.Series[0].Impactados)
	assert.InDelta(t, 20.0, r.Series[0].PorcentajeImpacto, 0.01)
	assert.Equal(t, 1, r.Series[1].Impactados)
	assert.InDelta(t, 15.0, r.PromedioPct, 0.01)
	assert.Equal(t, 10, r.TotalClientes)
}

func TestDiasSinVenta(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "Reciente", "2025-07-18", "Remision", 100, 0),
		venta("D2", "V1", "Dormido", "2025-05-01", "Remision", 900, 0),
		venta("D3", "V1", "Perdido", "2024-11-01", "Remision", 50, 0),
	}
	svc := &kpiService{
		store: instalar(rows, nil),
		ahora: func() time.Time { return fecha("2025-07-20") },
	}

	out := svc.DiasSinVenta("V1")
	require.Len(t, out, 2) // Reciente (2 días) queda fuera del umbral de 7
	assert.Equal(t, "Perdido", out[0].Cliente)
	assert.Equal(t, "180+", out[0].Categoria)
	assert.Equal(t, "Dormido", out[1].Cliente)
	assert.Equal(t, 80, out[1].Dias)
	assert.Equal(t, "60-89", out[1].Categoria)
}

func TestEvolucionCliente(t *testing.T) {
	rows := []model.Venta{
		venta("D1", "V1", "C1", "2025-07-02", "Remision", 100, 0),
		venta("D2", "V1", "C1", "2025-07-02", "Remision", 50, 0),
		venta("D3", "V1", "C1", "2025-07-05", "Remision", 30, 0),
		venta("D4", "V1", "C2", "2025-07-05", "Remision", 999, 0),
	}
	svc := NewKPIService(instalar(rows, nil))

	serie := svc.EvolucionCliente("C1", "V1")
	require.Len(t, serie, 2)
	assert.Equal(t, "2025-07-02", serie[0].Fecha)
	assert.Equal(t, "150", serie[0].ValorNeto.String())
	assert.Equal(t, 2, serie[0].NumDocumentos)
}
