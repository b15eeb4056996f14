package service

import (
	"math"
	"sort"
	"time"

	"emesanalytics/internal/calendar"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
)

// CumplimientoService computes quota compliance against expected business-day
// progress, convenio progress over the agreement window, and collection rate.
type CumplimientoService interface {
	Cuotas(vendedor, mes string) []dto.CumplimientoCuota
	Convenios(vendedor string) []dto.ProgresoConvenio
	ConveniosAl(vendedor string, ref time.Time) []dto.ProgresoConvenio
	Recaudo(vendedor, mes string) dto.RecaudoResponse
}

type cumplimientoService struct {
	store *store.Store
	ahora func() time.Time
}

func NewCumplimientoService(st *store.Store) CumplimientoService {
	return &cumplimientoService{store: st, ahora: time.Now}
}

// Status colors shared by the compliance views.
var coloresEstado = map[string]string{
	"Cumplido":   "#1a9850",
	"Cumplió":    "#1a9850",
	"Adelantado": "#66bd63",
	"Cumpliendo": "#fee08b",
	"Cerca":      "#fee08b",
	"Atrasado":   "#f46d43",
	"No Cumplió": "#d73027",
}

// ventasNetasMes sums remisiones minus |devoluciones| for one vendor/month
// view.
func ventasNetasMes(rows []model.Venta) decimal.Decimal {
	var neto decimal.Decimal
	for _, v := range rows {
		switch {
		case v.EsRemision():
			neto = neto.Add(v.ValorNeto)
		case v.EsDevolucion():
			neto = neto.Sub(v.ValorNeto.Abs())
		}
	}
	return neto
}

// Cuotas evaluates one month (YYYY-MM; empty = current) for one vendor or for
// every vendor with a quota that month. Vendors without quota are excluded,
// never zero-imputed.
func (s *cumplimientoService) Cuotas(vendedor, mes string) []dto.CumplimientoCuota {
	snap := s.store.Current()
	ref := s.ahora()

	if mes == "" || mes == store.Todos {
		mes = ref.Format("2006-01")
	}
	periodo, err := time.Parse("2006-01", mes)
	if err != nil {
		return []dto.CumplimientoCuota{}
	}
	cuotasMes := snap.Cuotas[periodo.Format("200601")]
	if len(cuotasMes) == 0 {
		return []dto.CumplimientoCuota{}
	}

	diasMes := calendar.DiasHabilesMes(periodo.Year(), periodo.Month())
	transcurridos := calendar.DiasHabilesTranscurridos(periodo.Year(), periodo.Month(), ref)
	finalizado := calendar.MesFinalizado(periodo.Year(), periodo.Month(), ref)

	out := make([]dto.CumplimientoCuota, 0, len(cuotasMes))
	for v, cuota := range cuotasMes {
		if vendedor != "" && vendedor != store.Todos && v != vendedor {
			continue
		}
		if !cuota.IsPositive() {
			continue
		}
		reales := ventasNetasMes(store.FiltrarVentas(snap.Ventas, v, mes))
		cumplimiento := pctDecimal(reales, cuota)

		var progresoEsperado float64
		if finalizado {
			progresoEsperado = 100
		} else if diasMes > 0 {
			progresoEsperado = float64(transcurridos) / float64(diasMes) * 100
		}

		estado := estadoCuota(cumplimiento, progresoEsperado, finalizado)
		out = append(out, dto.CumplimientoCuota{
			Vendedor:            v,
			Mes:                 mes,
			Cuota:               cuota,
			VentasReales:        reales,
			CumplimientoPct:     redondear2(cumplimiento),
			ProgresoEsperadoPct: redondear2(progresoEsperado),
			MetaEsperada:        cuota.Mul(decimal.NewFromFloat(progresoEsperado)).DivRound(decimal.NewFromInt(100), 2),
			Estado:              estado,
			Color:               coloresEstado[estado],
			DiasMes:             diasMes,
			DiasTranscurridos:   transcurridos,
			MesFinalizado:       finalizado,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CumplimientoPct == out[j].CumplimientoPct {
			return out[i].Vendedor < out[j].Vendedor
		}
		return out[i].CumplimientoPct > out[j].CumplimientoPct
	})
	return out
}

// estadoCuota derives the status solely from the three inputs. The ±5 band
// around the expected progress separates Cumpliendo from Adelantado/Atrasado.
func estadoCuota(cumplimiento, esperado float64, finalizado bool) string {
	if finalizado {
		if cumplimiento >= 100 {
			return "Cumplido"
		}
		return "No Cumplió"
	}
	switch {
	case cumplimiento >= 100:
		return "Cumplido"
	case cumplimiento > esperado+5:
		return "Adelantado"
	case cumplimiento >= esperado-5:
		return "Cumpliendo"
	default:
		return "Atrasado"
	}
}

// Convenios reports progress per agreement as of today. Agreements without an
// explicit window default to the current calendar year.
func (s *cumplimientoService) Convenios(vendedor string) []dto.ProgresoConvenio {
	return s.ConveniosAl(vendedor, s.ahora())
}

// ConveniosAl evaluates the same progress with expected advance measured at
// ref, so historical evaluations see the state the window had back then.
func (s *cumplimientoService) ConveniosAl(vendedor string, ref time.Time) []dto.ProgresoConvenio {
	snap := s.store.Current()

	out := make([]dto.ProgresoConvenio, 0, len(snap.Convenios))
	for _, c := range snap.Convenios {
		if vendedor != "" && vendedor != store.Todos && c.Vendedor != vendedor {
			continue
		}
		inicio, fin := c.FechaInicio, c.FechaFin
		if inicio.IsZero() || fin.IsZero() {
			inicio = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
			fin = time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		}

		var bruto, descuento, reales decimal.Decimal
		for _, v := range snap.Ventas {
			if v.NIT != c.NIT || v.Fecha.Before(inicio) || v.Fecha.After(fin) || v.Fecha.After(ref) {
				continue
			}
			switch {
			case v.EsRemision():
				bruto = bruto.Add(v.ValorBruto)
				descuento = descuento.Add(v.Descuento.Abs())
				reales = reales.Add(v.ValorNeto)
			case v.EsDevolucion():
				reales = reales.Sub(v.ValorNeto.Abs())
			}
		}

		progresoMeta := pctDecimal(reales, c.TargetValue)
		diasVentana := calendar.DiasHabilesRango(inicio, fin)
		var progresoEsperado float64
		if diasVentana > 0 {
			progresoEsperado = float64(calendar.DiasHabilesRangoHasta(inicio, fin, ref)) / float64(diasVentana) * 100
		}

		estado := estadoConvenio(progresoMeta, progresoEsperado)
		descuentoReal := pctDecimal(descuento, bruto)
		out = append(out, dto.ProgresoConvenio{
			NIT:                   c.NIT,
			Cliente:               c.ClienteNombre,
			Razon:                 c.Razon,
			Vendedor:              c.Vendedor,
			TargetValue:           c.TargetValue,
			VentasReales:          reales,
			ProgresoMetaPct:       redondear2(progresoMeta),
			ProgresoEsperadoPct:   redondear2(progresoEsperado),
			CumplimientoMeta:      progresoMeta >= 100,
			Estado:                estado,
			Color:                 coloresEstado[estado],
			DescuentoRealPct:      redondear2(descuentoReal),
			DescuentoPactadoPct:   redondear2(c.DescuentoPct),
			CumplimientoDescuento: descuentoReal <= c.DescuentoPct,
			DiferenciaDescuento:   redondear2(descuentoReal - c.DescuentoPct),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProgresoMetaPct == out[j].ProgresoMetaPct {
			return out[i].NIT < out[j].NIT
		}
		return out[i].ProgresoMetaPct > out[j].ProgresoMetaPct
	})
	return out
}

func estadoConvenio(meta, esperado float64) string {
	switch {
	case meta >= 100:
		return "Cumplió"
	case meta > esperado:
		return "Adelantado"
	case meta >= esperado-5:
		return "Cerca"
	default:
		return "Atrasado"
	}
}

// Recaudo aggregates receipts per day and per month, with the collection rate
// against net sales of the same view.
func (s *cumplimientoService) Recaudo(vendedor, mes string) dto.RecaudoResponse {
	snap := s.store.Current()
	recibos := store.FiltrarRecibos(snap.Recibos, vendedor, mes)

	out := dto.RecaudoResponse{PorDia: []dto.RecaudoDia{}, PorMes: []dto.RecaudoMes{}}

	porDia := map[string]*dto.RecaudoDia{}
	porMes := map[string]*dto.RecaudoMes{}
	for _, r := range recibos {
		out.Total = out.Total.Add(r.Valor)

		dia := r.Fecha.Format("2006-01-02")
		d := porDia[dia]
		if d == nil {
			d = &dto.RecaudoDia{Fecha: dia}
			porDia[dia] = d
		}
		d.Valor = d.Valor.Add(r.Valor)
		d.NumRecibos++

		m := porMes[r.Mes]
		if m == nil {
			m = &dto.RecaudoMes{Mes: r.Mes}
			porMes[r.Mes] = m
		}
		m.Valor = m.Valor.Add(r.Valor)
		m.NumRecibos++
	}
	for _, d := range porDia {
		out.PorDia = append(out.PorDia, *d)
	}
	for _, m := range porMes {
		out.PorMes = append(out.PorMes, *m)
	}
	sort.Slice(out.PorDia, func(i, j int) bool { return out.PorDia[i].Fecha < out.PorDia[j].Fecha })
	sort.Slice(out.PorMes, func(i, j int) bool { return out.PorMes[i].Mes < out.PorMes[j].Mes })

	netas := ventasNetasMes(store.FiltrarVentas(snap.Ventas, vendedor, mes))
	out.TasaRecaudo = redondear2(math.Min(100, pctDecimal(out.Total, netas)))
	return out
}
