package store

import "emesanalytics/internal/model"

// FiltrarVentas is the canonical pure filter: keeps rows whose vendor matches
// (all when vendedor is "Todos" or empty) and whose YYYY-MM month matches
// (all when mes is "Todos" or empty).
func FiltrarVentas(rows []model.Venta, vendedor, mes string) []model.Venta {
	todosVendedor := vendedor == "" || vendedor == Todos
	todosMes := mes == "" || mes == Todos
	if todosVendedor && todosMes {
		out := make([]model.Venta, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]model.Venta, 0, len(rows))
	for _, v := range rows {
		if !todosVendedor && v.Vendedor != vendedor {
			continue
		}
		if !todosMes && v.Mes != mes {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FiltrarRecibos applies the same vendor/month semantics to receipts.
func FiltrarRecibos(rows []model.Recibo, vendedor, mes string) []model.Recibo {
	todosVendedor := vendedor == "" || vendedor == Todos
	todosMes := mes == "" || mes == Todos
	out := make([]model.Recibo, 0, len(rows))
	for _, r := range rows {
		if !todosVendedor && r.Vendedor != vendedor {
			continue
		}
		if !todosMes && r.Mes != mes {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FiltrarCompras keeps purchase rows of one laboratorio ("Todos" = all).
func FiltrarCompras(rows []model.Compra, laboratorio string) []model.Compra {
	if laboratorio == "" || laboratorio == Todos {
		out := make([]model.Compra, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]model.Compra, 0, len(rows))
	for _, c := range rows {
		if c.Razon == laboratorio {
			out = append(out, c)
		}
	}
	return out
}
