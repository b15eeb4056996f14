package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"emesanalytics/internal/calendar"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
)

// EvaluacionService produces the composite vendor score: efficiency, quality
// and distribution pillars blended into score_total, plus the ranking and the
// historical evolution.
type EvaluacionService interface {
	Ranking(metrica, mes string) []dto.EvaluacionVendedor
	Evolucion(vendedor string, meses int) []dto.EvolucionPunto
}

type evaluacionService struct {
	store            *store.Store
	cumplimiento     CumplimientoService
	totalProductos   int
	totalProveedores int
	ventanaMeses     int
	ahora            func() time.Time
}

func NewEvaluacionService(st *store.Store, cumplimiento CumplimientoService, totalProductos, totalProveedores, ventanaMeses int) EvaluacionService {
	if ventanaMeses < 1 {
		ventanaMeses = 6
	}
	return &evaluacionService{
		store:            st,
		cumplimiento:     cumplimiento,
		totalProductos:   totalProductos,
		totalProveedores: totalProveedores,
		ventanaMeses:     ventanaMeses,
		ahora:            time.Now,
	}
}

// Composite weights. The older divergent constants that floated around the
// legacy reports are superseded by this single set.
const (
	pesoCuota      = 0.35
	pesoCrecim     = 0.25
	pesoConvenios  = 0.20
	pesoRecaudo    = 0.20
	pesoPortafolio = 0.35
	pesoProveed    = 0.20
	pesoSensibil   = 0.25
	pesoDevolInv   = 0.20
	pesoScoreProd  = 0.35
	pesoScoreCli   = 0.30
	pesoScoreProv  = 0.15
	pesoVolumen    = 0.20
	pesoEficiencia = 0.40
	pesoCalidad    = 0.10
	pesoScore      = 0.50
)

// Ranking scores every active vendor over the window ending at mes (YYYY-MM;
// empty = last finalized month) and sorts by the requested metric.
func (s *evaluacionService) Ranking(metrica, mes string) []dto.EvaluacionVendedor {
	snap := s.store.Current()

	fin, ok := s.finPeriodo(mes)
	if !ok {
		return []dto.EvaluacionVendedor{}
	}
	activos := snap.Maestros.VendedoresActivos
	if len(activos) == 0 {
		return []dto.EvaluacionVendedor{}
	}

	out := make([]dto.EvaluacionVendedor, 0, len(activos))
	volumenes := make([]float64, 0, len(activos))
	for _, v := range activos {
		eval, volumen := s.evaluar(snap, v, fin)
		out = append(out, eval)
		volumenes = append(volumenes, volumen)
	}

	// Volume percentile over the ranked population, then the distribution
	// score is blended with it.
	for i := range out {
		rango := 0
		for _, vol := range volumenes {
			if vol <= volumenes[i] {
				rango++
			}
		}
		out[i].VolumePercentile = redondear2(float64(rango) / float64(len(volumenes)) * 100)
		out[i].Score = redondear2(0.8*out[i].Score + pesoVolumen*out[i].VolumePercentile)
		out[i].ScoreTotal = redondear2(pesoEficiencia*out[i].Eficiencia + pesoCalidad*out[i].Calidad + pesoScore*out[i].Score)
		out[i].CategoriaDesempeno = categoriaDesempeno(out[i].ScoreTotal)
		out[i].AnalisisBreve = analisisBreve(out[i])
	}

	clave := func(e dto.EvaluacionVendedor) float64 {
		switch metrica {
		case "eficiencia":
			return e.Eficiencia
		case "calidad":
			return e.Calidad
		case "score":
			return e.Score
		default:
			return e.ScoreTotal
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if clave(out[i]) == clave(out[j]) {
			return out[i].Vendedor < out[j].Vendedor
		}
		return clave(out[i]) > clave(out[j])
	})
	for i := range out {
		out[i].Posicion = i + 1
	}
	return out
}

// Evolucion recomputes eficiencia, calidad and score_total for each of the
// last n finalized months.
func (s *evaluacionService) Evolucion(vendedor string, meses int) []dto.EvolucionPunto {
	if meses < 1 {
		meses = 6
	}
	snap := s.store.Current()
	ancla := calendar.FechaAncla(s.ahora())

	out := make([]dto.EvolucionPunto, 0, meses)
	for i := meses - 1; i >= 0; i-- {
		fin := time.Date(ancla.Year(), ancla.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i+1, -1)
		eval, _ := s.evaluar(snap, vendedor, fin)
		// Sin mezcla de volumen: la evolución compara al vendedor consigo mismo.
		scoreTotal := redondear2(pesoEficiencia*eval.Eficiencia + pesoCalidad*eval.Calidad + pesoScore*eval.Score)
		out = append(out, dto.EvolucionPunto{
			Mes:        fin.Format("2006-01"),
			Eficiencia: eval.Eficiencia,
			Calidad:    eval.Calidad,
			ScoreTotal: scoreTotal,
		})
	}
	return out
}

// finPeriodo resolves the evaluation period end: the last day of mes, or of
// the last finalized month when mes is empty.
func (s *evaluacionService) finPeriodo(mes string) (time.Time, bool) {
	if mes == "" || mes == store.Todos {
		return calendar.FechaAncla(s.ahora()), true
	}
	t, err := time.Parse("2006-01", mes)
	if err != nil {
		return time.Time{}, false
	}
	return t.AddDate(0, 1, -1), true
}

// evaluar computes every pillar for one vendor over the window ending at fin.
// The second return value is the sales volume used for the percentile blend.
func (s *evaluacionService) evaluar(snap *store.Snapshot, vendedor string, fin time.Time) (dto.EvaluacionVendedor, float64) {
	inicio := time.Date(fin.Year(), fin.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(s.ventanaMeses - 1), 0)

	// ── Ventas del vendedor en la ventana ──
	type mesAgg struct {
		neto        decimal.Decimal
		bruto       decimal.Decimal
		devolucion  decimal.Decimal
		numClientes map[string]struct{}
	}
	porMes := map[string]*mesAgg{}
	clientesDistintos := map[string]struct{}{}
	var totalNeto, totalDevol, totalBruto decimal.Decimal
	for _, v := range snap.Ventas {
		if v.Vendedor != vendedor || v.Fecha.Before(inicio) || v.Fecha.After(fin) {
			continue
		}
		a := porMes[v.Mes]
		if a == nil {
			a = &mesAgg{numClientes: map[string]struct{}{}}
			porMes[v.Mes] = a
		}
		switch {
		case v.EsRemision():
			a.neto = a.neto.Add(v.ValorNeto)
			a.bruto = a.bruto.Add(v.ValorBruto)
			totalNeto = totalNeto.Add(v.ValorNeto)
			totalBruto = totalBruto.Add(v.ValorBruto)
			if v.ClienteCompleto != "" {
				clientesDistintos[v.ClienteCompleto] = struct{}{}
				a.numClientes[v.ClienteCompleto] = struct{}{}
			}
		case v.EsDevolucion():
			a.devolucion = a.devolucion.Add(v.ValorNeto.Abs())
			totalDevol = totalDevol.Add(v.ValorNeto.Abs())
		}
	}

	// ── Cumplimiento de cuota: promedio sobre los meses con cuota ──
	var sumaCumpl float64
	mesesConCuota := 0
	for i := 0; i < s.ventanaMeses; i++ {
		m := inicio.AddDate(0, i, 0)
		cuota, ok := snap.Cuotas[m.Format("200601")][vendedor]
		if !ok || !cuota.IsPositive() {
			continue
		}
		var reales decimal.Decimal
		if a := porMes[m.Format("2006-01")]; a != nil {
			reales = a.neto.Sub(a.devolucion)
		}
		sumaCumpl += pctDecimal(reales, cuota)
		mesesConCuota++
	}
	var cumplimientoCuota float64
	if mesesConCuota > 0 {
		cumplimientoCuota = clip(sumaCumpl/float64(mesesConCuota), 0, 100)
	}

	// ── Crecimiento: tasa media mes a mes convertida a puntaje ──
	serie := make([]float64, s.ventanaMeses)
	for i := 0; i < s.ventanaMeses; i++ {
		m := inicio.AddDate(0, i, 0).Format("2006-01")
		if a := porMes[m]; a != nil {
			serie[i] = a.neto.Sub(a.devolucion).InexactFloat64()
		}
	}
	var sumaG float64
	nG := 0
	for i := 1; i < len(serie); i++ {
		if serie[i-1] > 0 {
			sumaG += (serie[i] - serie[i-1]) / serie[i-1] * 100
			nG++
		}
	}
	var g float64
	if nG > 0 {
		g = sumaG / float64(nG)
	}
	crecimiento := clip(50+2.5*g, 0, 100)

	// ── Convenios: fracción al día; sin convenios no penaliza ──
	convenios := s.cumplimiento.ConveniosAl(vendedor, fin)
	cumplConvenios := 100.0
	if len(convenios) > 0 {
		alDia := 0
		for _, c := range convenios {
			if c.ProgresoMetaPct >= c.ProgresoEsperadoPct {
				alDia++
			}
		}
		cumplConvenios = float64(alDia) / float64(len(convenios)) * 100
	}

	// ── Recaudo en la ventana ──
	var recaudo decimal.Decimal
	for _, r := range snap.Recibos {
		if r.Vendedor == vendedor && !r.Fecha.Before(inicio) && !r.Fecha.After(fin) {
			recaudo = recaudo.Add(r.Valor)
		}
	}
	tasaRecaudo := math.Min(100, pctDecimal(recaudo, totalNeto.Sub(totalDevol)))

	// ── Distribución desde la actividad diaria ──
	proveedores, clientesAct, productos := s.actividadVentana(snap, vendedor, inicio, fin)

	numClientesVenta := len(clientesDistintos)
	if numClientesVenta == 0 {
		numClientesVenta = len(clientesAct)
	}
	asignados := snap.NumClientes[vendedor]

	portafolio := clip(pct(float64(len(productos)), float64(s.totalProductos)), 0, 100)
	diversificacion := clip(pct(float64(len(proveedores)), float64(s.totalProveedores)), 0, 100)
	sensibilidad := clip(pct(float64(numClientesVenta), float64(asignados)), 0, 100)
	tasaDevol := pctDecimal(totalDevol, totalNeto)
	devolInv := clip(100-10*tasaDevol, 0, 100)

	eval := dto.EvaluacionVendedor{
		Vendedor:                   vendedor,
		CumplimientoCuota:          redondear2(cumplimientoCuota),
		CrecimientoVentas:          redondear2(crecimiento),
		CumplimientoConvenios:      redondear2(cumplConvenios),
		TasaRecaudo:                redondear2(tasaRecaudo),
		ProfundidadPortafolio:      redondear2(portafolio),
		DiversificacionProveedores: redondear2(diversificacion),
		SensibilidadClientes:       redondear2(sensibilidad),
		TasaDevolucionesInv:        redondear2(devolInv),
		ScoreProductos:             redondear2(puntajeEntropia(productos)),
		ScoreClientes:              redondear2(puntajeEntropia(clientesAct)),
		ScoreProveedores:           redondear2(puntajeEntropia(proveedores)),
	}
	eval.Eficiencia = redondear2(pesoCuota*eval.CumplimientoCuota + pesoCrecim*eval.CrecimientoVentas +
		pesoConvenios*eval.CumplimientoConvenios + pesoRecaudo*eval.TasaRecaudo)
	eval.Calidad = redondear2(pesoPortafolio*eval.ProfundidadPortafolio + pesoProveed*eval.DiversificacionProveedores +
		pesoSensibil*eval.SensibilidadClientes + pesoDevolInv*eval.TasaDevolucionesInv)
	eval.Score = pesoScoreProd*eval.ScoreProductos + pesoScoreCli*eval.ScoreClientes + pesoScoreProv*eval.ScoreProveedores

	return eval, totalNeto.Sub(totalDevol).InexactFloat64()
}

// actividadVentana aggregates the daily activity maps of one vendor over a
// date window. The activity feed is keyed by vendor code.
func (s *evaluacionService) actividadVentana(snap *store.Snapshot, vendedor string, inicio, fin time.Time) (proveedores, clientes, productos map[string]float64) {
	proveedores = map[string]float64{}
	clientes = map[string]float64{}
	productos = map[string]float64{}

	codigo := vendedor
	for c, nombre := range snap.Maestros.CodigosVendedores {
		if nombre == vendedor {
			codigo = c
			break
		}
	}

	desde, hasta := inicio.Format("20060102"), fin.Format("20060102")
	for _, dia := range snap.Actividad[codigo] {
		if dia.Fecha < desde || dia.Fecha > hasta {
			continue
		}
		for k, v := range dia.Proveedores {
			proveedores[k] += v
		}
		for k, v := range dia.Clientes {
			clientes[k] += v
		}
		for k, v := range dia.Productos {
			productos[k] += v
		}
	}
	return proveedores, clientes, productos
}

// puntajeEntropia is the Shannon-entropy concentration score: small maps are
// scored by count alone, larger ones by normalized entropy plus a diversity
// bonus.
func puntajeEntropia(m map[string]float64) float64 {
	n := len(m)
	if n == 0 {
		return 0
	}
	if n <= 3 {
		return float64(10 * n)
	}

	var total float64
	for _, v := range m {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return float64(10 * 3)
	}
	var h float64
	for _, v := range m {
		if v <= 0 {
			continue
		}
		p := v / total
		h -= p * math.Log(p)
	}
	normalizado := h / math.Log(float64(n)) * 100
	bono := math.Min(float64(n)/20, 1) * 20
	return math.Min(100, 0.8*normalizado+bono)
}

func categoriaDesempeno(scoreTotal float64) string {
	switch {
	case scoreTotal >= 85:
		return "Excelente"
	case scoreTotal >= 70:
		return "Destacado"
	case scoreTotal >= 55:
		return "Competente"
	case scoreTotal >= 40:
		return "En Desarrollo"
	default:
		return "Crítico"
	}
}

// analisisBreve names the strongest and weakest pillar in one line.
func analisisBreve(e dto.EvaluacionVendedor) string {
	pilares := []struct {
		nombre string
		valor  float64
	}{
		{"cumplimiento de cuota", e.CumplimientoCuota},
		{"crecimiento", e.CrecimientoVentas},
		{"convenios", e.CumplimientoConvenios},
		{"recaudo", e.TasaRecaudo},
		{"portafolio", e.ProfundidadPortafolio},
		{"diversificación de proveedores", e.DiversificacionProveedores},
		{"cobertura de clientes", e.SensibilidadClientes},
		{"control de devoluciones", e.TasaDevolucionesInv},
	}
	mejor, peor := pilares[0], pilares[0]
	for _, p := range pilares[1:] {
		if p.valor > mejor.valor {
			mejor = p
		}
		if p.valor < peor.valor {
			peor = p
		}
	}
	return fmt.Sprintf("Fortaleza en %s (%.0f); oportunidad de mejora en %s (%.0f)", mejor.nombre, mejor.valor, peor.nombre, peor.valor)
}
