package service

import (
	"fmt"
	"testing"
	"time"

	"emesanalytics/internal/cache"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rfmPrueba(st *store.Store, ahora string) *rfmService {
	return &rfmService{
		store:         st,
		memo:          cache.NewMemo[[]dto.RFMScore](2),
		historiaMeses: 12,
		ventanaMeses:  6,
		ahora:         func() time.Time { return fecha(ahora) },
	}
}

// serieCliente emits one remisión per month, February through July 2025, on
// day 15.
func serieCliente(cliente string, valores []float64) []model.Venta {
	out := make([]model.Venta, 0, len(valores))
	for i, v := range valores {
		dia := fmt.Sprintf("2025-%02d-15", i+2)
		out = append(out, venta("D-"+cliente+"-"+dia, "V1", cliente, dia, "Remision", v, 0))
	}
	return out
}

// Con ahora = 2025-08-05, el ancla es 2025-07-31: agosto aún no finaliza.
func TestScoresClienteUnico(t *testing.T) {
	rows := serieCliente("Farmacia Sol", []float64{100, 120, 150, 180, 220, 260})
	// Posterior al ancla: no participa.
	rows = append(rows, venta("D-post", "V1", "Farmacia Sol", "2025-08-02", "Remision", 999, 0))
	svc := rfmPrueba(instalar(rows, nil), "2025-08-05")

	scores := svc.Scores("V1")
	require.Len(t, scores, 1)
	sc := scores[0]
	assert.Equal(t, 5, sc.R)
	assert.Equal(t, 5, sc.F)
	assert.Equal(t, 5, sc.M)
	assert.Equal(t, 4, sc.T)
	assert.Equal(t, "5554", sc.RFMScore)
	assert.InDelta(t, 4.8, sc.RFMNumeric, 0.001)
	assert.Equal(t, "Campeones Ascendentes", sc.Categoria)
	assert.Equal(t, "#1a9850", sc.Color)
	assert.InDelta(t, 21.06, sc.CAGR6m, 0.05)
	assert.Equal(t, 16, sc.RecencyDias)
	assert.Equal(t, 6, sc.Frecuencia)
	assert.Equal(t, "1030", sc.Monetario.String())
}

// Dos clientes con el mismo total, la misma frecuencia y la misma última
// compra: solo la tendencia los separa.
func TestScoresTendenciaSepara(t *testing.T) {
	rows := serieCliente("Creciente", []float64{10, 20, 40, 80, 160, 320})
	rows = append(rows, serieCliente("Decreciente", []float64{320, 160, 80, 40, 20, 10})...)
	svc := rfmPrueba(instalar(rows, nil), "2025-08-05")

	scores := svc.Scores("V1")
	require.Len(t, scores, 2)

	assert.Equal(t, "Creciente", scores[0].Cliente)
	assert.Equal(t, "5555", scores[0].RFMScore)
	assert.InDelta(t, 100.0, scores[0].CAGR6m, 0.01)
	assert.Equal(t, "Campeones Ascendentes", scores[0].Categoria)

	assert.Equal(t, "Decreciente", scores[1].Cliente)
	assert.Equal(t, "5551", scores[1].RFMScore)
	assert.InDelta(t, -50.0, scores[1].CAGR6m, 0.01)
	assert.Equal(t, "Campeones en Declive", scores[1].Categoria)
	assert.InDelta(t, 4.2, scores[1].RFMNumeric, 0.001)
}

func TestScoresSinVentas(t *testing.T) {
	svc := rfmPrueba(instalar(nil, nil), "2025-08-05")
	assert.Empty(t, svc.Scores("V1"))
}

// Devoluciones y remisiones con neto negativo quedan fuera del scoring.
func TestScoresSoloRemisionesPositivas(t *testing.T) {
	rows := serieCliente("C1", []float64{100, 100, 100, 100, 100, 100})
	rows = append(rows,
		venta("D-dev", "V1", "C1", "2025-07-10", "Devolucion", -500, 0),
		venta("D-neg", "V1", "C1", "2025-07-11", "Remision", -50, 0),
	)
	svc := rfmPrueba(instalar(rows, nil), "2025-08-05")

	scores := svc.Scores("V1")
	require.Len(t, scores, 1)
	assert.Equal(t, 6, scores[0].Frecuencia)
	assert.Equal(t, "600", scores[0].Monetario.String())
}

func TestScoresMemoizaPorGeneracion(t *testing.T) {
	rows := serieCliente("C1", []float64{100, 120, 150, 180, 220, 260})
	st := instalar(rows, nil)
	svc := rfmPrueba(st, "2025-08-05")

	primero := svc.Scores("V1")
	segundo := svc.Scores("V1")
	assert.Equal(t, primero, segundo)
	assert.Equal(t, 1, svc.memo.Len())

	// Nueva generación con otro cliente: el resultado cambia.
	snap := store.NewEmptySnapshot()
	snap.Generation = 2
	snap.Ventas = serieCliente("C2", []float64{50, 50, 50, 50, 50, 50})
	st.Install(snap)

	tercero := svc.Scores("V1")
	require.Len(t, tercero, 1)
	assert.Equal(t, "C2", tercero[0].Cliente)
}

func TestPuntajesQuintil(t *testing.T) {
	// Diez valores distintos: dos por quintil.
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, puntajesQuintil(vals))
}

func TestPuntajesQuintilEmpates(t *testing.T) {
	// Los empates resuelven al puntaje alto.
	vals := []float64{1, 1, 1, 1, 1, 2, 3, 4, 5, 6}
	got := puntajesQuintil(vals)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 3, got[i], "índice %d", i)
	}
	assert.Equal(t, 5, got[9])
}

func TestPuntajesQuintilDegenerado(t *testing.T) {
	assert.Equal(t, []int{5, 5, 5}, puntajesQuintil([]float64{7, 7, 7}))
	assert.Equal(t, []int{1, 5, 1}, puntajesQuintil([]float64{1, 9, 1}))
	assert.Equal(t, []int{1, 3, 5}, puntajesQuintil([]float64{1, 5, 9}))
}

func TestTendenciaEvidenciaInsuficiente(t *testing.T) {
	serie := make([]float64, 12)
	serie[10], serie[11] = 100, 200 // dos meses con venta
	got := tendencia(serie, 6)
	assert.Equal(t, 3, got.puntaje)
}

func TestTendenciaFallbackMoM(t *testing.T) {
	// Primer mes de la ventana en cero: no hay CAGR, cae al promedio de
	// variaciones mensuales recortado.
	serie := make([]float64, 12)
	copy(serie[6:], []float64{0, 100, 100, 100, 100, 100})
	got := tendencia(serie, 6)
	assert.InDelta(t, 0.0, got.cagr, 0.001)
	assert.Equal(t, 3, got.puntaje)
}

func TestCategorizarReglas(t *testing.T) {
	casos := []struct {
		r, f, m, tt int
		categoria   string
	}{
		{5, 5, 5, 5, "Campeones Ascendentes"},
		{5, 5, 5, 1, "Campeones en Declive"},
		{2, 5, 3, 5, "Clientes Estrella"},
		{3, 3, 3, 3, "Leales Estables"},
		{3, 4, 2, 2, "En Caída Libre"},
		{5, 1, 2, 5, "Potenciales con Momentum"},
		{5, 2, 1, 3, "Nuevos en Desarrollo"},
		{3, 2, 4, 5, "Oportunidades Calientes"},
		{2, 3, 1, 2, "Atención Urgente"},
		{1, 5, 5, 2, "Rescate Inmediato"},
		{1, 1, 1, 3, "Hibernando Estables"},
		{1, 2, 2, 1, "Perdidos"},
		{2, 1, 2, 5, "Comportamiento Irregular"},
	}
	for _, c := range casos {
		got := categorizar(c.r, c.f, c.m, c.tt)
		assert.Equal(t, c.categoria, got.Nombre, "r=%d f=%d m=%d t=%d", c.r, c.f, c.m, c.tt)
		assert.NotEmpty(t, got.Recomendacion)
		assert.NotEmpty(t, got.Color)
	}
}

func TestInsights(t *testing.T) {
	rows := serieCliente("Creciente", []float64{10, 20, 40, 80, 160, 320})
	rows = append(rows, serieCliente("Decreciente", []float64{320, 160, 80, 40, 20, 10})...)
	svc := rfmPrueba(instalar(rows, nil), "2025-08-05")

	in := svc.Insights("V1")
	assert.Equal(t, 2, in.KPIs.TotalClientes)
	assert.InDelta(t, 25.0, in.KPIs.CAGRPromedio, 0.01)
	assert.Equal(t, 1, in.Tendencia.Creciendo)
	assert.Equal(t, 1, in.Tendencia.Decreciendo)
	assert.Equal(t, "630", in.Tendencia.IngresosDecreciendo.String())
	assert.InDelta(t, 105.0, in.KPIs.TicketPromedio, 0.01) // 1260 / 12 documentos

	require.Len(t, in.Distribucion, 2)
	assert.InDelta(t, 50.0, in.Distribucion[0].Participacion, 0.01)

	// La mitad de la cartera en declive dispara la alerta crítica.
	require.NotEmpty(t, in.Alertas)
	assert.Equal(t, "critica", in.Alertas[0].Nivel)

	require.NotEmpty(t, in.Recomendaciones)
	assert.Contains(t, in.Recomendaciones[0], "Campeones en Declive (1 clientes)")
}

func TestInsightsVacio(t *testing.T) {
	svc := rfmPrueba(instalar(nil, nil), "2025-08-05")
	in := svc.Insights("V1")
	assert.Zero(t, in.KPIs.TotalClientes)
	assert.Empty(t, in.Distribucion)
	assert.Empty(t, in.Alertas)
}
