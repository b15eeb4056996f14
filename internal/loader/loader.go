// Package loader pulls raw records from the operational KV store and the
// purchases warehouse, normalizes them at this edge, and installs immutable
// snapshots into the fact store. Domains fail independently: a source outage
// leaves that fact table empty, logs one event and never aborts the rest.
package loader

import (
	"context"
	"sort"
	"time"

	"emesanalytics/internal/model"
	"emesanalytics/internal/repository"
	"emesanalytics/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service struct {
	fb      repository.FirebaseRepository
	compras repository.CompraRepository
	store   *store.Store
}

func New(fb repository.FirebaseRepository, compras repository.CompraRepository, st *store.Store) *Service {
	return &Service{fb: fb, compras: compras, store: st}
}

// ReloadAll re-reads every source and installs a new generation. Readers in
// progress keep the snapshot they already hold. A canceled context discards
// the partial load without installing anything.
func (s *Service) ReloadAll(ctx context.Context) (*store.Snapshot, error) {
	snap := store.NewEmptySnapshot()
	snap.Generation = s.store.Current().Generation + 1
	snap.CargadoEn = time.Now().UTC()

	// Maestros first: sales normalization needs the vendor catalog.
	s.cargarMaestros(ctx, snap)
	s.cargarClientes(ctx, snap)
	s.cargarVentas(ctx, snap)
	s.cargarConvenios(ctx, snap)
	s.cargarRecibos(ctx, snap)
	s.cargarCuotas(ctx, snap)
	s.cargarNumClientes(ctx, snap)
	s.cargarActividad(ctx, snap)
	s.cargarCompras(ctx, snap)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	derivarListas(snap)
	s.store.Install(snap)

	log.Info().
		Uint64("generacion", snap.Generation).
		Int("ventas", len(snap.Ventas)).
		Int("clientes", len(snap.Clientes)).
		Int("convenios", len(snap.Convenios)).
		Int("recibos", len(snap.Recibos)).
		Int("compras", len(snap.Compras)).
		Interface("descartes", snap.Descartes).
		Msg("snapshot instalado")
	return snap, nil
}

// fallo records an independent domain failure: empty fact, one log event.
func fallo(snap *store.Snapshot, dominio string, err error) {
	log.Error().Str("dominio", dominio).Err(err).Msg("carga de dominio fallida")
	snap.Errores[dominio] = err.Error()
}

func descartar(snap *store.Snapshot, dominio string) {
	snap.Descartes[dominio]++
}

// ── Maestros ─────────────────────────────────────────────────────────────────

func (s *Service) cargarMaestros(ctx context.Context, snap *store.Snapshot) {
	m := model.Maestros{
		TiposDocumento:    map[string]string{},
		CodigosVendedores: map[string]string{},
		FormasPago:        map[string]string{},
		CodigosLabs:       map[string]string{},
	}

	tablas := []struct {
		nombre  string
		destino map[string]string
	}{
		{"tipo_documentos", m.TiposDocumento},
		{"codigos_vendedores", m.CodigosVendedores},
		{"forma_pago_clientes", m.FormasPago},
		{"codigos_labs", m.CodigosLabs},
	}
	for _, t := range tablas {
		data, err := s.fb.Maestro(ctx, t.nombre)
		if err != nil {
			fallo(snap, "maestros/"+t.nombre, err)
			continue
		}
		for codigo, v := range data {
			t.destino[codigo] = ATexto(v)
		}
	}

	activos, err := s.fb.VendedoresActivos(ctx)
	if err != nil {
		fallo(snap, "maestros/vendedores_activos", err)
	} else {
		m.VendedoresActivos = activos
	}

	snap.Maestros = m
}

// nombreVendedor resolves a source key (code or name) against the catalog.
// Unresolvable keys degrade to Desconocido; the row is kept.
func nombreVendedor(m model.Maestros, clave string) string {
	if clave == "" {
		return model.VendedorDesconocido
	}
	if nombre, ok := m.CodigosVendedores[clave]; ok && nombre != "" {
		return nombre
	}
	for _, nombre := range m.CodigosVendedores {
		if nombre == clave {
			return clave
		}
	}
	if len(m.CodigosVendedores) == 0 {
		// Without a catalog there is nothing to resolve against; keep the key.
		return clave
	}
	return model.VendedorDesconocido
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func (s *Service) cargarClientes(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.ClientesID(ctx)
	if err != nil {
		fallo(snap, "clientes", err)
		return
	}
	rows := make([]model.Cliente, 0, len(data))
	for id1, campos := range data {
		rows = append(rows, model.Cliente{
			ID1:             id1,
			NIT:             SoloDigitos(ATexto(campos["nit"])),
			Nombre:          ATexto(campos["cliente_nombre"]),
			NombreComercial: ATexto(campos["nombre_comercial"]),
			Ciudad:          ATexto(campos["ciudad"]),
			Departamento:    ATexto(campos["departamento"]),
			Direccion:       ATexto(campos["direccion"]),
			Telefono:        ATexto(campos["telefono"]),
			Vendedor:        nombreVendedor(snap.Maestros, ATexto(campos["vendedor"])),
			Zona:            ATexto(campos["zona"]),
			Subzona:         ATexto(campos["subzona"]),
			ListaPrecios:    ATexto(campos["lista_precios"]),
			FormaPago:       formaPago(snap.Maestros, ATexto(campos["forma_pago"])),
			Estado:          ATexto(campos["estado"]),
			CupoCredito:     ADecimal(campos["cupo_credito"]),
			Lat:             ANumero(campos["lat"]),
			Long:            ANumero(campos["long"]),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID1 < rows[j].ID1 })
	snap.Clientes = rows
}

// formaPago maps a payment-method code to its label, keeping the code when
// the catalog has no entry.
func formaPago(m model.Maestros, codigo string) string {
	if etiqueta, ok := m.FormasPago[codigo]; ok && etiqueta != "" {
		return etiqueta
	}
	return codigo
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func (s *Service) cargarVentas(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.VentasVendedor(ctx)
	if err != nil {
		fallo(snap, "ventas", err)
		return
	}
	rows := make([]model.Venta, 0, 1024)
	for clave, documentos := range data {
		vendedor := nombreVendedor(snap.Maestros, clave)
		for docID, campos := range documentos {
			fecha, ok := ParseFecha(ATexto(campos["fecha"]))
			if !ok {
				descartar(snap, "ventas")
				continue
			}
			bruto := ADecimal(campos["valor_bruto"])
			descuento := ADecimal(campos["descuento"])
			nombre := ATexto(campos["cliente"])
			razon := ATexto(campos["url"]) // the source stores the commercial name under "url"
			tipo := ATexto(campos["tipo"])
			if mapeado, ok := snap.Maestros.TiposDocumento[tipo]; ok && mapeado != "" {
				tipo = mapeado
			}
			rows = append(rows, model.Venta{
				DocumentoID:     docID,
				Vendedor:        vendedor,
				Cliente:         nombre,
				Razon:           razon,
				NIT:             SoloDigitos(ATexto(campos["nit"])),
				ClienteCompleto: ClienteCompleto(nombre, razon),
				Fecha:           fecha,
				Mes:             Mes(fecha),
				MesNombre:       MesNombre(fecha),
				DiaSemana:       DiaSemana(fecha),
				Tipo:            tipo,
				ValorBruto:      bruto,
				Descuento:       descuento,
				IVA:             ADecimal(campos["iva"]),
				ValorNeto:       bruto.Sub(descuento),
				FormaPago:       formaPago(snap.Maestros, ATexto(campos["forma_pago"])),
				Zona:            ATexto(campos["zona"]),
				Subzona:         ATexto(campos["subzona"]),
				CupoCredito:     ADecimal(campos["cupo_credito"]),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Fecha.Equal(rows[j].Fecha) {
			return rows[i].DocumentoID < rows[j].DocumentoID
		}
		return rows[i].Fecha.Before(rows[j].Fecha)
	})
	snap.Ventas = rows
}

// ── Convenios ────────────────────────────────────────────────────────────────

func (s *Service) cargarConvenios(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.Convenios(ctx)
	if err != nil {
		fallo(snap, "convenios", err)
		return
	}
	rows := make([]model.Convenio, 0, len(data))
	for nit, campos := range data {
		c := model.Convenio{
			NIT:           SoloDigitos(nit),
			ClienteNombre: ATexto(campos["client_name"]),
			Razon:         ATexto(campos["razon"]),
			Vendedor:      ATexto(campos["seller_name"]),
			Estado:        ATexto(campos["estado"]),
			// The source stores the rebate as a fraction.
			DescuentoPct:  ANumero(campos["rebate_pct"]) * 100,
			TargetValue:   ADecimal(campos["target_value"]),
			Observaciones: ATexto(campos["observations"]),
		}
		if !c.Confirmado() {
			continue
		}
		if !c.TargetValue.IsPositive() {
			descartar(snap, "convenios")
			continue
		}
		if t, ok := ParseFecha(ATexto(campos["fecha_inicio"])); ok {
			c.FechaInicio = t
		}
		if t, ok := ParseFecha(ATexto(campos["fecha_fin"])); ok {
			c.FechaFin = t
		}
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NIT < rows[j].NIT })
	snap.Convenios = rows
}

// ── Recibos ──────────────────────────────────────────────────────────────────

func (s *Service) cargarRecibos(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.RecibosCaja(ctx)
	if err != nil {
		fallo(snap, "recibos", err)
		return
	}
	rows := make([]model.Recibo, 0, len(data))
	for reciboID, campos := range data {
		fecha, ok := ParseFecha(ATexto(campos["fecha"]))
		if !ok {
			descartar(snap, "recibos")
			continue
		}
		rows = append(rows, model.Recibo{
			ReciboID: reciboID,
			ID1:      ATexto(campos["id1"]),
			Vendedor: nombreVendedor(snap.Maestros, ATexto(campos["vendedor"])),
			Fecha:    fecha,
			Mes:      Mes(fecha),
			Valor:    ADecimal(campos["valor_recibo"]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Fecha.Equal(rows[j].Fecha) {
			return rows[i].ReciboID < rows[j].ReciboID
		}
		return rows[i].Fecha.Before(rows[j].Fecha)
	})
	snap.Recibos = rows
}

// ── Cuotas ───────────────────────────────────────────────────────────────────

func (s *Service) cargarCuotas(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.CuotasVendedores(ctx)
	if err != nil {
		fallo(snap, "cuotas", err)
		return
	}
	cuotas := make(map[string]map[string]decimal.Decimal, len(data))
	for mes, porVendedor := range data {
		if len(mes) != 6 {
			descartar(snap, "cuotas")
			continue
		}
		destino := make(map[string]decimal.Decimal, len(porVendedor))
		for vendedor, monto := range porVendedor {
			destino[vendedor] = ADecimal(monto)
		}
		cuotas[mes] = destino
	}
	snap.Cuotas = cuotas
}

// ── Num clientes ─────────────────────────────────────────────────────────────

func (s *Service) cargarNumClientes(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.NumClientesPorVendedor(ctx)
	if err != nil {
		fallo(snap, "num_clientes", err)
		return
	}
	out := make(map[string]int, len(data))
	for vendedor, n := range data {
		out[vendedor] = AEntero(n)
	}
	snap.NumClientes = out
}

// ── Actividad (analisis_vendedores) ──────────────────────────────────────────

func (s *Service) cargarActividad(ctx context.Context, snap *store.Snapshot) {
	data, err := s.fb.AnalisisVendedores(ctx)
	if err != nil {
		fallo(snap, "actividad", err)
		return
	}
	out := make(map[string][]model.ActividadDia, len(data))
	for codigo, porFecha := range data {
		dias := make([]model.ActividadDia, 0, len(porFecha))
		for fecha, campos := range porFecha {
			dias = append(dias, model.ActividadDia{
				Fecha:       fecha,
				Proveedores: mapaNumerico(campos["proveedores"]),
				Clientes:    mapaNumerico(campos["clientes"]),
				Productos:   mapaNumerico(campos["productos"]),
			})
		}
		sort.Slice(dias, func(i, j int) bool { return dias[i].Fecha < dias[j].Fecha })
		out[codigo] = dias
	}
	snap.Actividad = out
}

func mapaNumerico(v interface{}) map[string]float64 {
	bruto, ok := v.(map[string]interface{})
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(bruto))
	for k, n := range bruto {
		out[k] = ANumero(n)
	}
	return out
}

// ── Compras ──────────────────────────────────────────────────────────────────

func (s *Service) cargarCompras(ctx context.Context, snap *store.Snapshot) {
	rows, err := s.compras.Mensuales(ctx)
	if err != nil {
		fallo(snap, "compras", err)
		return
	}
	for i := range rows {
		rows[i].CalcularDerivados()
	}
	snap.Compras = rows
}

// ── Listas derivadas ─────────────────────────────────────────────────────────

// derivarListas builds the filter lists from the loaded sales: vendors sorted
// ascending, months sorted most recent first, both headed by "Todos".
func derivarListas(snap *store.Snapshot) {
	vendedores := map[string]struct{}{}
	meses := map[string]struct{}{}
	for _, v := range snap.Ventas {
		vendedores[v.Vendedor] = struct{}{}
		meses[v.Mes] = struct{}{}
	}

	listaV := make([]string, 0, len(vendedores)+1)
	for v := range vendedores {
		listaV = append(listaV, v)
	}
	sort.Strings(listaV)
	snap.Vendedores = append([]string{store.Todos}, listaV...)

	listaM := make([]string, 0, len(meses)+1)
	for m := range meses {
		listaM = append(listaM, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(listaM)))
	snap.Meses = append([]string{store.Todos}, listaM...)
}
