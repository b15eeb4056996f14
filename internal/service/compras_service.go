package service

import (
	"sort"

	"emesanalytics/internal/dto"
	"emesanalytics/internal/model"
	"emesanalytics/internal/store"
)

// ComprasService aggregates the monthly purchases fact and classifies
// replenishment urgency. The forecasting model consumes the urgency records;
// training lives elsewhere.
type ComprasService interface {
	Resumen(laboratorio string) dto.ResumenCompras
	Criticos(laboratorio string, n int) []dto.ProductoCritico
	Urgencia(laboratorio string) []dto.UrgenciaProducto
}

type comprasService struct{ store *store.Store }

func NewComprasService(st *store.Store) ComprasService { return &comprasService{store: st} }

func (s *comprasService) Resumen(laboratorio string) dto.ResumenCompras {
	df := store.FiltrarCompras(s.store.Current().Compras, laboratorio)

	out := dto.ResumenCompras{PorRotacion: map[string]int{}}
	var sumaRotacion float64
	for _, c := range df {
		out.NumProductos++
		out.ComprasNetas += c.ComprasNetas
		out.VentasNetas += c.VentasNetas
		out.ValorStock += c.CostoStock
		sumaRotacion += c.Rotacion
		out.PorRotacion[c.CategoriaRotacion]++
		if c.Critico {
			out.NumCriticos++
		}
	}
	if out.NumProductos > 0 {
		out.RotacionPromedio = redondear2(sumaRotacion / float64(out.NumProductos))
	}
	return out
}

// Criticos lists products with low stock and high rotation, the ones about to
// run out; n <= 0 means all.
func (s *comprasService) Criticos(laboratorio string, n int) []dto.ProductoCritico {
	df := store.FiltrarCompras(s.store.Current().Compras, laboratorio)

	out := make([]dto.ProductoCritico, 0, len(df))
	for _, c := range df {
		if !c.Critico {
			continue
		}
		out = append(out, dto.ProductoCritico{
			Codigo:            c.Codigo,
			Descripcion:       c.Descripcion,
			Laboratorio:       c.Razon,
			Stock:             c.Stock,
			VentasNetas:       c.VentasNetas,
			Rotacion:          redondear2(c.Rotacion),
			DiasInventario:    redondear2(c.DiasInventario),
			CategoriaRotacion: c.CategoriaRotacion,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DiasInventario == out[j].DiasInventario {
			return out[i].Codigo < out[j].Codigo
		}
		return out[i].DiasInventario < out[j].DiasInventario
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// clasificarUrgencia applies the replenishment rules over days of inventory
// and rotation.
func clasificarUrgencia(c model.Compra) string {
	switch {
	case c.VentasNetas <= 0:
		return "Baja" // sin demanda no hay urgencia de resurtido
	case c.DiasInventario <= 7 || c.Critico:
		return "Crítica"
	case c.DiasInventario <= 15:
		return "Alta"
	case c.DiasInventario <= 30:
		return "Media"
	default:
		return "Baja"
	}
}

var ordenUrgencia = map[string]int{"Crítica": 0, "Alta": 1, "Media": 2, "Baja": 3}

func (s *comprasService) Urgencia(laboratorio string) []dto.UrgenciaProducto {
	df := store.FiltrarCompras(s.store.Current().Compras, laboratorio)

	out := make([]dto.UrgenciaProducto, 0, len(df))
	for _, c := range df {
		out = append(out, dto.UrgenciaProducto{
			Codigo:         c.Codigo,
			Descripcion:    c.Descripcion,
			Laboratorio:    c.Razon,
			Urgencia:       clasificarUrgencia(c),
			Stock:          c.Stock,
			VentasNetas:    c.VentasNetas,
			Rotacion:       redondear2(c.Rotacion),
			DiasInventario: redondear2(c.DiasInventario),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if ordenUrgencia[out[i].Urgencia] == ordenUrgencia[out[j].Urgencia] {
			if out[i].DiasInventario == out[j].DiasInventario {
				return out[i].Codigo < out[j].Codigo
			}
			return out[i].DiasInventario < out[j].DiasInventario
		}
		return ordenUrgencia[out[i].Urgencia] < ordenUrgencia[out[j].Urgencia]
	})
	return out
}
