package service

import (
	"time"

	"emesanalytics/internal/loader"
	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/shopspring/decimal"
)

func fecha(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// venta builds a normalized sales row the way the loader would emit it.
func venta(doc, vendedor, cliente, dia, tipo string, bruto, descuento float64) model.Venta {
	f := fecha(dia)
	b := decimal.NewFromFloat(bruto)
	d := decimal.NewFromFloat(descuento)
	return model.Venta{
		DocumentoID:     doc,
		Vendedor:        vendedor,
		Cliente:         cliente,
		ClienteCompleto: cliente,
		NIT:             "900",
		Fecha:           f,
		Mes:             loader.Mes(f),
		MesNombre:       loader.MesNombre(f),
		DiaSemana:       loader.DiaSemana(f),
		Tipo:            tipo,
		ValorBruto:      b,
		Descuento:       d,
		ValorNeto:       b.Sub(d),
	}
}

// instalar publishes a snapshot with the given rows as generation 1.
func instalar(ventas []model.Venta, ajustar func(*store.Snapshot)) *store.Store {
	st := store.New()
	snap := store.NewEmptySnapshot()
	snap.Generation = 1
	snap.Ventas = ventas
	if ajustar != nil {
		ajustar(snap)
	}
	st.Install(snap)
	return st
}
