package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"emesanalytics/internal/cache"
	"emesanalytics/internal/calendar"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
)

// RFMService scores clients on Recency, Frequency, Monetary and Trend, and
// aggregates the scored population into insights. Results are memoized per
// (vendor, generation).
type RFMService interface {
	Scores(vendedor string) []dto.RFMScore
	Insights(vendedor string) dto.RFMInsights
}

type rfmService struct {
	store         *store.Store
	memo          *cache.Memo[[]dto.RFMScore]
	historiaMeses int
	ventanaMeses  int
	ahora         func() time.Time
}

func NewRFMService(st *store.Store, memo *cache.Memo[[]dto.RFMScore], historiaMeses, ventanaMeses int) RFMService {
	if historiaMeses < 2 {
		historiaMeses = 12
	}
	if ventanaMeses < 2 || ventanaMeses > historiaMeses {
		ventanaMeses = 6
	}
	return &rfmService{
		store:         st,
		memo:          memo,
		historiaMeses: historiaMeses,
		ventanaMeses:  ventanaMeses,
		ahora:         time.Now,
	}
}

func (s *rfmService) Scores(vendedor string) []dto.RFMScore {
	snap := s.store.Current()
	if v, ok := s.memo.Get(vendedor, snap.Generation); ok {
		return v
	}
	scores := s.calcular(snap, vendedor, calendar.FechaAncla(s.ahora()))
	s.memo.Put(vendedor, snap.Generation, scores)
	return scores
}

// ── Scoring pipeline ─────────────────────────────────────────────────────────

type clienteBase struct {
	cliente     string
	ultimaFecha time.Time
	documentos  map[string]struct{}
	monetario   decimal.Decimal
	serie       []float64 // historiaMeses valores, el último es el mes de T*
}

// calcular runs the full pipeline against one snapshot with an explicit
// anchor date. Only remisiones with positive net value, dated at or before
// T*, participate.
func (s *rfmService) calcular(snap *store.Snapshot, vendedor string, ancla time.Time) []dto.RFMScore {
	df := store.FiltrarVentas(snap.Ventas, vendedor, store.Todos)

	meses := mesesHasta(ancla, s.historiaMeses)
	indiceMes := make(map[string]int, len(meses))
	for i, m := range meses {
		indiceMes[m] = i
	}

	porCliente := map[string]*clienteBase{}
	for _, v := range df {
		if !v.EsRemision() || !v.ValorNeto.IsPositive() || v.Fecha.After(ancla) {
			continue
		}
		if v.ClienteCompleto == "" {
			continue
		}
		b := porCliente[v.ClienteCompleto]
		if b == nil {
			b = &clienteBase{
				cliente:    v.ClienteCompleto,
				documentos: map[string]struct{}{},
				serie:      make([]float64, s.historiaMeses),
			}
			porCliente[v.ClienteCompleto] = b
		}
		b.documentos[v.DocumentoID] = struct{}{}
		b.monetario = b.monetario.Add(v.ValorNeto)
		if v.Fecha.After(b.ultimaFecha) {
			b.ultimaFecha = v.Fecha
		}
		if idx, ok := indiceMes[v.Mes]; ok {
			b.serie[idx] += v.ValorNeto.InexactFloat64()
		}
	}
	if len(porCliente) == 0 {
		return []dto.RFMScore{}
	}

	bases := make([]*clienteBase, 0, len(porCliente))
	for _, b := range porCliente {
		bases = append(bases, b)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i].cliente < bases[j].cliente })

	// Base dimensions over the scored population.
	recencia := make([]float64, len(bases))
	frecuencia := make([]float64, len(bases))
	monetario := make([]float64, len(bases))
	for i, b := range bases {
		recencia[i] = -float64(diasEntre(b.ultimaFecha, ancla)) // invertida: menos días es mejor
		frecuencia[i] = float64(len(b.documentos))
		monetario[i] = b.monetario.InexactFloat64()
	}
	puntajeR := puntajesQuintil(recencia)
	puntajeF := puntajesQuintil(frecuencia)
	puntajeM := puntajesQuintil(monetario)

	out := make([]dto.RFMScore, len(bases))
	for i, b := range bases {
		tend := tendencia(b.serie, s.ventanaMeses)
		r, f, m := puntajeR[i], puntajeF[i], puntajeM[i]
		cat := categorizar(r, f, m, tend.puntaje)

		out[i] = dto.RFMScore{
			Cliente:       b.cliente,
			R:             r,
			F:             f,
			M:             m,
			T:             tend.puntaje,
			RFMScore:      fmt.Sprintf("%d%d%d%d", r, f, m, tend.puntaje),
			RFMNumeric:    0.25*float64(r) + 0.25*float64(f) + 0.30*float64(m) + 0.20*float64(tend.puntaje),
			Categoria:     cat.Nombre,
			Recomendacion: cat.Recomendacion,
			Color:         cat.Color,
			CAGR6m:        redondear2(tend.cagr),
			Var3m:         redondear2(tend.var3m),
			VarReciente:   redondear2(tend.varReciente),
			Consistencia:  redondear2(tend.consistencia),
			RecencyDias:   diasEntre(b.ultimaFecha, ancla),
			Frecuencia:    len(b.documentos),
			Monetario:     b.monetario,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RFMNumeric == out[j].RFMNumeric {
			return out[i].Cliente < out[j].Cliente
		}
		return out[i].RFMNumeric > out[j].RFMNumeric
	})
	return out
}

// mesesHasta lists n YYYY-MM labels ending at the month of ancla, ascending.
func mesesHasta(ancla time.Time, n int) []string {
	out := make([]string, n)
	base := time.Date(ancla.Year(), ancla.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out[n-1-i] = base.AddDate(0, -i, 0).Format("2006-01")
	}
	return out
}

func diasEntre(desde, hasta time.Time) int {
	d := time.Date(desde.Year(), desde.Month(), desde.Day(), 0, 0, 0, 0, time.UTC)
	h := time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 0, 0, 0, 0, time.UTC)
	n := int(h.Sub(d).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// puntajesQuintil assigns 1..5 over the empirical distribution, larger is
// better. Ties resolve to the higher score (rank-max). With four or fewer
// distinct values the scores spread densely so the best value gets 5 and the
// worst 1.
func puntajesQuintil(valores []float64) []int {
	n := len(valores)
	out := make([]int, n)
	if n == 0 {
		return out
	}

	distintos := map[float64]struct{}{}
	for _, v := range valores {
		distintos[v] = struct{}{}
	}
	d := len(distintos)

	if d <= 4 {
		// Degenerate population: spread the distinct values over 1..5.
		orden := make([]float64, 0, d)
		for v := range distintos {
			orden = append(orden, v)
		}
		sort.Float64s(orden)
		puntaje := map[float64]int{}
		for idx, v := range orden {
			if d == 1 {
				puntaje[v] = 5
			} else {
				puntaje[v] = 1 + int(math.Round(4*float64(idx)/float64(d-1)))
			}
		}
		for i, v := range valores {
			out[i] = puntaje[v]
		}
		return out
	}

	ordenados := make([]float64, n)
	copy(ordenados, valores)
	sort.Float64s(ordenados)
	for i, v := range valores {
		// rank-max: posición del último valor <= v.
		rango := sort.SearchFloat64s(ordenados, v)
		for rango < n && ordenados[rango] <= v {
			rango++
		}
		out[i] = int(math.Ceil(5 * float64(rango) / float64(n)))
	}
	return out
}

// ── Tendencia ────────────────────────────────────────────────────────────────

type metricaTendencia struct {
	cagr         float64
	var3m        float64
	varReciente  float64
	consistencia float64
	puntaje      int
}

// tendencia derives the T dimension from the monthly series. CAGR over the
// growth window when both endpoints are positive; otherwise the clipped mean
// month-over-month change.
func tendencia(serie []float64, ventana int) metricaTendencia {
	var t metricaTendencia

	s6 := serie[len(serie)-ventana:]
	primero, ultimo := s6[0], s6[len(s6)-1]
	if primero > 0 && ultimo > 0 {
		t.cagr = (math.Pow(ultimo/primero, 1/float64(len(s6)-1)) - 1) * 100
	} else {
		var suma float64
		var cuenta int
		for i := 1; i < len(s6); i++ {
			if s6[i-1] > 0 {
				suma += (s6[i] - s6[i-1]) / s6[i-1] * 100
				cuenta++
			}
		}
		if cuenta > 0 {
			t.cagr = clip(suma/float64(cuenta), -100, 500)
		}
	}

	if len(serie) >= 6 {
		ult3 := promedio(serie[len(serie)-3:])
		prev3 := promedio(serie[len(serie)-6 : len(serie)-3])
		t.var3m = pct(ult3-prev3, prev3)
	}
	if len(serie) >= 2 {
		t.varReciente = pct(serie[len(serie)-1]-serie[len(serie)-2], serie[len(serie)-2])
	}

	media := promedio(serie)
	if media > 0 {
		t.consistencia = clip(100-desviacion(serie, media)/media*100, 0, 100)
	}

	noCero := 0
	for _, v := range serie {
		if v != 0 {
			noCero++
		}
	}
	switch {
	case noCero < 3:
		t.puntaje = 3 // evidencia insuficiente
	case t.cagr > 30:
		t.puntaje = 5
	case t.cagr >= 10:
		t.puntaje = 4
	case t.cagr >= -5:
		t.puntaje = 3
	case t.cagr >= -25:
		t.puntaje = 2
	default:
		t.puntaje = 1
	}
	return t
}

func promedio(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var suma float64
	for _, x := range xs {
		suma += x
	}
	return suma / float64(len(xs))
}

func desviacion(xs []float64, media float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var suma float64
	for _, x := range xs {
		suma += (x - media) * (x - media)
	}
	return math.Sqrt(suma / float64(len(xs)))
}

// ── Categorización ───────────────────────────────────────────────────────────

// Categoria is one cell of the static category table.
type Categoria struct {
	Nombre        string
	Recomendacion string
	Color         string
}

var categoriasRFM = map[string]Categoria{
	"Campeones Ascendentes":    {"Campeones Ascendentes", "Proteger la relación: atención prioritaria y beneficios exclusivos", "#1a9850"},
	"Campeones en Declive":     {"Campeones en Declive", "Visita gerencial inmediata: cliente clave perdiendo ritmo", "#d73027"},
	"Clientes Estrella":        {"Clientes Estrella", "Ampliar portafolio y proponer convenio anual", "#66bd63"},
	"Leales Estables":          {"Leales Estables", "Mantener frecuencia de visita y programa de fidelización", "#a6d96a"},
	"En Caída Libre":           {"En Caída Libre", "Plan de recuperación con descuento puntual y seguimiento semanal", "#f46d43"},
	"Potenciales con Momentum": {"Potenciales con Momentum", "Aumentar frecuencia de contacto para consolidar el crecimiento", "#74add1"},
	"Nuevos en Desarrollo":     {"Nuevos en Desarrollo", "Acompañamiento comercial y material de introducción", "#abd9e9"},
	"Oportunidades Calientes":  {"Oportunidades Calientes", "Ofertas cruzadas ahora: disposición de compra en máximo", "#fdae61"},
	"Atención Urgente":         {"Atención Urgente", "Contacto esta semana antes de que la relación se enfríe", "#fee08b"},
	"Rescate Inmediato":        {"Rescate Inmediato", "Llamada del director comercial con propuesta de reactivación", "#a50026"},
	"Hibernando Estables":      {"Hibernando Estables", "Campaña de reactivación de bajo costo", "#d9ef8b"},
	"Perdidos":                 {"Perdidos", "Incluir en campañas masivas; no invertir esfuerzo comercial directo", "#878787"},
	"Comportamiento Irregular": {"Comportamiento Irregular", "Revisar caso a caso: el patrón no encaja en ningún segmento", "#bababa"},
}

// categorizar applies the rule table in order; the first match wins, so the
// function is total and every client lands in exactly one category.
func categorizar(r, f, m, t int) Categoria {
	var nombre string
	switch {
	case f >= 4 && m >= 4 && r >= 4 && t >= 4:
		nombre = "Campeones Ascendentes"
	case f >= 4 && m >= 4 && r >= 4 && t <= 2:
		nombre = "Campeones en Declive"
	case f >= 4 && m >= 3 && t >= 4:
		nombre = "Clientes Estrella"
	case f >= 3 && m >= 3 && r >= 3 && t == 3:
		nombre = "Leales Estables"
	case r >= 3 && t <= 2 && (f >= 3 || m >= 3):
		nombre = "En Caída Libre"
	case r >= 4 && f <= 2 && t >= 4:
		nombre = "Potenciales con Momentum"
	case r >= 4 && f <= 2 && t == 3:
		nombre = "Nuevos en Desarrollo"
	case r >= 3 && m >= 3 && t >= 4:
		nombre = "Oportunidades Calientes"
	case r == 2 && (f >= 3 || m >= 3):
		nombre = "Atención Urgente"
	case r == 1 && f >= 4 && m >= 4:
		nombre = "Rescate Inmediato"
	case r <= 2 && t == 3:
		nombre = "Hibernando Estables"
	case r == 1 && f <= 2 && m <= 2:
		nombre = "Perdidos"
	default:
		nombre = "Comportamiento Irregular"
	}
	return categoriasRFM[nombre]
}

// ── Insights ─────────────────────────────────────────────────────────────────

var categoriasOportunidad = map[string]bool{
	"Oportunidades Calientes":  true,
	"Potenciales con Momentum": true,
	"Clientes Estrella":        true,
}

func (s *rfmService) Insights(vendedor string) dto.RFMInsights {
	scores := s.Scores(vendedor)
	out := dto.RFMInsights{
		Distribucion:    []dto.CategoriaResumen{},
		Oportunidades:   []dto.RFMScore{},
		Alertas:         []dto.Alerta{},
		Recomendaciones: []string{},
	}
	if len(scores) == 0 {
		return out
	}

	var sumaCAGR, sumaRecency float64
	var sumaM decimal.Decimal
	totalDocs := 0
	porCategoria := map[string]*dto.CategoriaResumen{}
	for _, sc := range scores {
		sumaCAGR += sc.CAGR6m
		sumaRecency += float64(sc.RecencyDias)
		sumaM = sumaM.Add(sc.Monetario)
		totalDocs += sc.Frecuencia

		c := porCategoria[sc.Categoria]
		if c == nil {
			c = &dto.CategoriaResumen{Categoria: sc.Categoria, Color: sc.Color}
			porCategoria[sc.Categoria] = c
		}
		c.Clientes++
		c.Ingresos = c.Ingresos.Add(sc.Monetario)

		switch {
		case sc.CAGR6m > 5:
			out.Tendencia.Creciendo++
			out.Tendencia.IngresosCreciendo = out.Tendencia.IngresosCreciendo.Add(sc.Monetario)
		case sc.CAGR6m < -5:
			out.Tendencia.Decreciendo++
			out.Tendencia.IngresosDecreciendo = out.Tendencia.IngresosDecreciendo.Add(sc.Monetario)
		}

		if categoriasOportunidad[sc.Categoria] {
			out.Oportunidades = append(out.Oportunidades, sc)
		}
	}

	n := float64(len(scores))
	out.KPIs = dto.RFMKPIs{
		TotalClientes:       len(scores),
		CAGRPromedio:        redondear2(sumaCAGR / n),
		RecencyPromedio:     redondear2(sumaRecency / n),
		ClientesCreciendo:   out.Tendencia.Creciendo,
		ClientesDecreciendo: out.Tendencia.Decreciendo,
	}
	if totalDocs > 0 {
		out.KPIs.TicketPromedio = redondear2(sumaM.InexactFloat64() / float64(totalDocs))
	}

	for _, c := range porCategoria {
		c.Participacion = redondear2(pct(float64(c.Clientes), n))
		out.Distribucion = append(out.Distribucion, *c)
	}
	sort.Slice(out.Distribucion, func(i, j int) bool {
		if out.Distribucion[i].Ingresos.Equal(out.Distribucion[j].Ingresos) {
			return out.Distribucion[i].Categoria < out.Distribucion[j].Categoria
		}
		return out.Distribucion[i].Ingresos.GreaterThan(out.Distribucion[j].Ingresos)
	})

	sort.SliceStable(out.Oportunidades, func(i, j int) bool {
		return out.Oportunidades[i].Monetario.GreaterThan(out.Oportunidades[j].Monetario)
	})
	if len(out.Oportunidades) > 10 {
		out.Oportunidades = out.Oportunidades[:10]
	}

	if out.Tendencia.Decreciendo > 0 && float64(out.Tendencia.Decreciendo)/n > 0.3 {
		out.Alertas = append(out.Alertas, dto.Alerta{
			Nivel:   "critica",
			Mensaje: fmt.Sprintf("%d de %d clientes en declive sostenido", out.Tendencia.Decreciendo, len(scores)),
		})
	}
	if out.KPIs.CAGRPromedio < -10 {
		out.Alertas = append(out.Alertas, dto.Alerta{
			Nivel:   "alta",
			Mensaje: fmt.Sprintf("CAGR promedio de la cartera en %.1f%%", out.KPIs.CAGRPromedio),
		})
	}

	out.Recomendaciones = recomendacionesPrioritarias(porCategoria)
	return out
}

// recomendacionesPrioritarias turns category counts into a short prioritized
// action list.
func recomendacionesPrioritarias(porCategoria map[string]*dto.CategoriaResumen) []string {
	prioridad := []string{
		"Rescate Inmediato",
		"Campeones en Declive",
		"En Caída Libre",
		"Atención Urgente",
		"Oportunidades Calientes",
		"Potenciales con Momentum",
		"Hibernando Estables",
	}
	out := []string{}
	for _, nombre := range prioridad {
		c, ok := porCategoria[nombre]
		if !ok || c.Clientes == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s (%d clientes): %s", nombre, c.Clientes, categoriasRFM[nombre].Recomendacion))
		if len(out) == 5 {
			break
		}
	}
	return out
}
