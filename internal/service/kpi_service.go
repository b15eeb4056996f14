package service

import (
	"sort"
	"time"

	"emesanalytics/internal/dto"
	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
)

// KPIService exposes the pure sales aggregations. Every view is a total
// function: an empty filtered fact yields an empty, well-typed result.
type KPIService interface {
	Resumen(vendedor, mes string) dto.ResumenKPI
	SerieMensual(vendedor string) []dto.PuntoMensual
	DistribucionDiaSemana(vendedor, mes string) []dto.PuntoDiaSemana
	TotalesPorZona(vendedor, mes string) []dto.PuntoZona
	MixFormaPago(vendedor, mes string) []dto.PuntoFormaPago
	TopClientes(vendedor, mes string, n int) []dto.ClienteTop
	VentasAcumuladas(vendedor, hastaMes string) []dto.ClienteTop
	ClientesImpactados(vendedor string) dto.ImpactadosResponse
	DiasSinVenta(vendedor string) []dto.ClienteSinVenta
	EvolucionCliente(cliente, vendedor string) []dto.PuntoDiario
}

type kpiService struct {
	store *store.Store
	ahora func() time.Time
}

func NewKPIService(st *store.Store) KPIService {
	return &kpiService{store: st, ahora: time.Now}
}

// remisiones keeps the real-sale rows; devoluciones and notas de crédito are
// aggregated separately everywhere.
func remisiones(rows []model.Venta) []model.Venta {
	out := make([]model.Venta, 0, len(rows))
	for _, v := range rows {
		if v.EsRemision() {
			out = append(out, v)
		}
	}
	return out
}

// sumaAbsoluta sums |valor_neto|. Return rows sometimes arrive with positive
// sign; the absolute value is what counts against sales.
func sumaAbsoluta(rows []model.Venta, pred func(model.Venta) bool) (total decimal.Decimal, n int) {
	for _, v := range rows {
		if pred(v) {
			total = total.Add(v.ValorNeto.Abs())
			n++
		}
	}
	return total, n
}

func (s *kpiService) Resumen(vendedor, mes string) dto.ResumenKPI {
	df := store.FiltrarVentas(s.store.Current().Ventas, vendedor, mes)

	var totalVentas, totalBruto, totalDescuento decimal.Decimal
	numDocs := 0
	for _, v := range df {
		if v.EsRemision() {
			totalVentas = totalVentas.Add(v.ValorNeto)
			totalBruto = totalBruto.Add(v.ValorBruto)
			totalDescuento = totalDescuento.Add(v.Descuento)
			numDocs++
		}
	}
	totalDev, _ := sumaAbsoluta(df, model.Venta.EsDevolucion)
	totalNotas, _ := sumaAbsoluta(df, model.Venta.EsNotaCredito)

	r := dto.ResumenKPI{
		TotalVentas:       totalVentas,
		TotalDevoluciones: totalDev,
		TotalNotasCredito: totalNotas,
		VentasNetas:       totalVentas.Sub(totalDev),
		NumDocumentos:     numDocs,
		DescuentoPct:      redondear2(pctDecimal(totalDescuento, totalBruto)),
		Efectividad:       redondear2(pctDecimal(totalVentas.Sub(totalDev), totalVentas)),
		TasaDevolucion:    redondear2(pctDecimal(totalDev, totalVentas)),
	}
	if numDocs > 0 {
		r.TicketPromedio = totalVentas.DivRound(decimal.NewFromInt(int64(numDocs)), 2)
	}
	return r
}

// SerieMensual merges remisiones minus |devoluciones| per month, ascending.
func (s *kpiService) SerieMensual(vendedor string) []dto.PuntoMensual {
	df := store.FiltrarVentas(s.store.Current().Ventas, vendedor, store.Todos)

	type acumulado struct {
		neto decimal.Decimal
		docs int
	}
	porMes := map[string]*acumulado{}
	for _, v := range df {
		a := porMes[v.Mes]
		if a == nil {
			a = &acumulado{}
			porMes[v.Mes] = a
		}
		switch {
		case v.EsRemision():
			a.neto = a.neto.Add(v.ValorNeto)
			a.docs++
		case v.EsDevolucion():
			a.neto = a.neto.Sub(v.ValorNeto.Abs())
		}
	}

	out := make([]dto.PuntoMensual, 0, len(porMes))
	for mes, a := range porMes {
		out = append(out, dto.PuntoMensual{Mes: mes, ValorNeto: a.neto, NumDocumentos: a.docs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mes < out[j].Mes })
	return out
}

var ordenDias = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

func (s *kpiService) DistribucionDiaSemana(vendedor, mes string) []dto.PuntoDiaSemana {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, mes))
	if len(df) == 0 {
		return []dto.PuntoDiaSemana{}
	}

	type acumulado struct {
		neto decimal.Decimal
		docs int
	}
	porDia := map[string]*acumulado{}
	for _, v := range df {
		a := porDia[v.DiaSemana]
		if a == nil {
			a = &acumulado{}
			porDia[v.DiaSemana] = a
		}
		a.neto = a.neto.Add(v.ValorNeto)
		a.docs++
	}

	out := make([]dto.PuntoDiaSemana, 0, len(ordenDias))
	for _, dia := range ordenDias {
		a := porDia[dia]
		if a == nil {
			out = append(out, dto.PuntoDiaSemana{Dia: dia})
			continue
		}
		out = append(out, dto.PuntoDiaSemana{Dia: dia, ValorNeto: a.neto, NumDocumentos: a.docs})
	}
	return out
}

func (s *kpiService) TotalesPorZona(vendedor, mes string) []dto.PuntoZona {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, mes))

	type acumulado struct {
		neto     decimal.Decimal
		clientes map[string]struct{}
	}
	porZona := map[string]*acumulado{}
	for _, v := range df {
		a := porZona[v.Zona]
		if a == nil {
			a = &acumulado{clientes: map[string]struct{}{}}
			porZona[v.Zona] = a
		}
		a.neto = a.neto.Add(v.ValorNeto)
		a.clientes[v.ClienteCompleto] = struct{}{}
	}

	out := make([]dto.PuntoZona, 0, len(porZona))
	for zona, a := range porZona {
		out = append(out, dto.PuntoZona{Zona: zona, ValorNeto: a.neto, NumClientes: len(a.clientes)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ValorNeto.Equal(out[j].ValorNeto) {
			return out[i].Zona < out[j].Zona
		}
		return out[i].ValorNeto.GreaterThan(out[j].ValorNeto)
	})
	return out
}

func (s *kpiService) MixFormaPago(vendedor, mes string) []dto.PuntoFormaPago {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, mes))

	var total decimal.Decimal
	porForma := map[string]decimal.Decimal{}
	for _, v := range df {
		porForma[v.FormaPago] = porForma[v.FormaPago].Add(v.ValorNeto)
		total = total.Add(v.ValorNeto)
	}

	out := make([]dto.PuntoFormaPago, 0, len(porForma))
	for forma, neto := range porForma {
		out = append(out, dto.PuntoFormaPago{
			FormaPago:     forma,
			ValorNeto:     neto,
			Participacion: redondear2(pctDecimal(neto, total)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ValorNeto.Equal(out[j].ValorNeto) {
			return out[i].FormaPago < out[j].FormaPago
		}
		return out[i].ValorNeto.GreaterThan(out[j].ValorNeto)
	})
	return out
}

// TopClientes returns the head-n clients by net value; n <= 0 means all.
func (s *kpiService) TopClientes(vendedor, mes string, n int) []dto.ClienteTop {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, mes))
	out := agruparClientes(df)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// VentasAcumuladas totals per client every month up to and including hastaMes.
func (s *kpiService) VentasAcumuladas(vendedor, hastaMes string) []dto.ClienteTop {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, store.Todos))
	if hastaMes != "" && hastaMes != store.Todos {
		filtrado := df[:0]
		for _, v := range df {
			if v.Mes <= hastaMes {
				filtrado = append(filtrado, v)
			}
		}
		df = filtrado
	}
	return agruparClientes(df)
}

func agruparClientes(df []model.Venta) []dto.ClienteTop {
	type acumulado struct {
		neto decimal.Decimal
		docs int
	}
	porCliente := map[string]*acumulado{}
	for _, v := range df {
		if v.ClienteCompleto == "" {
			continue
		}
		a := porCliente[v.ClienteCompleto]
		if a == nil {
			a = &acumulado{}
			porCliente[v.ClienteCompleto] = a
		}
		a.neto = a.neto.Add(v.ValorNeto)
		a.docs++
	}

	out := make([]dto.ClienteTop, 0, len(porCliente))
	for cliente, a := range porCliente {
		out = append(out, dto.ClienteTop{Cliente: cliente, ValorNeto: a.neto, NumDocumentos: a.docs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ValorNeto.Equal(out[j].ValorNeto) {
			return out[i].Cliente < out[j].Cliente
		}
		return out[i].ValorNeto.GreaterThan(out[j].ValorNeto)
	})
	return out
}

// ClientesImpactados counts distinct buying clients per month against the
// vendor's assigned-client denominator.
func (s *kpiService) ClientesImpactados(vendedor string) dto.ImpactadosResponse {
	snap := s.store.Current()
	df := remisiones(store.FiltrarVentas(snap.Ventas, vendedor, store.Todos))

	total := 0
	if vendedor == "" || vendedor == store.Todos {
		for _, n := range snap.NumClientes {
			total += n
		}
	} else {
		total = snap.NumClientes[vendedor]
	}

	porMes := map[string]map[string]struct{}{}
	for _, v := range df {
		if v.ClienteCompleto == "" {
			continue
		}
		set := porMes[v.Mes]
		if set == nil {
			set = map[string]struct{}{}
			porMes[v.Mes] = set
		}
		set[v.ClienteCompleto] = struct{}{}
	}

	series := make([]dto.ImpactadosMes, 0, len(porMes))
	for mes, set := range porMes {
		series = append(series, dto.ImpactadosMes{
			Mes:               mes,
			Impactados:        len(set),
			PorcentajeImpacto: redondear2(pct(float64(len(set)), float64(total))),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Mes < series[j].Mes })

	var promedio float64
	if len(series) > 0 {
		var suma float64
		for _, p := range series {
			suma += p.PorcentajeImpacto
		}
		promedio = redondear2(suma / float64(len(series)))
	}

	return dto.ImpactadosResponse{Series: series, PromedioPct: promedio, TotalClientes: total}
}

// categoriaDias buckets days-without-sale the way the commercial team reads
// them.
func categoriaDias(dias int) string {
	switch {
	case dias < 30:
		return "1-29"
	case dias < 60:
		return "30-59"
	case dias < 90:
		return "60-89"
	case dias < 180:
		return "90-179"
	default:
		return "180+"
	}
}

// DiasSinVenta lists clients with at least 7 days since their last purchase,
// most stale first.
func (s *kpiService) DiasSinVenta(vendedor string) []dto.ClienteSinVenta {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, store.Todos))
	ref := s.ahora()

	type ultima struct {
		fecha time.Time
		total decimal.Decimal
	}
	porCliente := map[string]*ultima{}
	for _, v := range df {
		if v.ClienteCompleto == "" {
			continue
		}
		u := porCliente[v.ClienteCompleto]
		if u == nil {
			u = &ultima{}
			porCliente[v.ClienteCompleto] = u
		}
		if v.Fecha.After(u.fecha) {
			u.fecha = v.Fecha
		}
		u.total = u.total.Add(v.ValorNeto)
	}

	refDia := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]dto.ClienteSinVenta, 0, len(porCliente))
	for cliente, u := range porCliente {
		dias := int(refDia.Sub(u.fecha).Hours() / 24)
		if dias < 7 {
			continue
		}
		out = append(out, dto.ClienteSinVenta{
			Cliente:             cliente,
			Dias:                dias,
			ValorTotalHistorico: u.total,
			UltimaFecha:         u.fecha.Format("2006-01-02"),
			Categoria:           categoriaDias(dias),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dias == out[j].Dias {
			return out[i].Cliente < out[j].Cliente
		}
		return out[i].Dias > out[j].Dias
	})
	return out
}

// EvolucionCliente is the daily purchase series of one client.
func (s *kpiService) EvolucionCliente(cliente, vendedor string) []dto.PuntoDiario {
	df := remisiones(store.FiltrarVentas(s.store.Current().Ventas, vendedor, store.Todos))

	type acumulado struct {
		neto decimal.Decimal
		docs int
	}
	porFecha := map[string]*acumulado{}
	for _, v := range df {
		if v.ClienteCompleto != cliente {
			continue
		}
		clave := v.Fecha.Format("2006-01-02")
		a := porFecha[clave]
		if a == nil {
			a = &acumulado{}
			porFecha[clave] = a
		}
		a.neto = a.neto.Add(v.ValorNeto)
		a.docs++
	}

	out := make([]dto.PuntoDiario, 0, len(porFecha))
	for fecha, a := range porFecha {
		out = append(out, dto.PuntoDiario{Fecha: fecha, ValorNeto: a.neto, NumDocumentos: a.docs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}
