package loader

import (
	"context"
	"errors"
	"testing"

	"emesanalytics/internal/model"
	"emesanalytics/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFirebase serves canned payloads and can fail per collection.
type stubFirebase struct {
	ventas    map[string]map[string]map[string]interface{}
	convenios map[string]map[string]interface{}
	recibos   map[string]map[string]interface{}
	cuotas    map[string]map[string]interface{}
	numCli    map[string]interface{}
	actividad map[string]map[string]map[string]interface{}
	maestros  map[string]map[string]interface{}
	activos   []string
	clientes  map[string]map[string]interface{}
	fallan    map[string]bool
}

var errFuente = errors.New("fuente no disponible")

func (s *stubFirebase) VentasVendedor(context.Context) (map[string]map[string]map[string]interface{}, error) {
	if s.fallan["ventas"] {
		return nil, errFuente
	}
	return s.ventas, nil
}
func (s *stubFirebase) Convenios(context.Context) (map[string]map[string]interface{}, error) {
	if s.fallan["convenios"] {
		return nil, errFuente
	}
	return s.convenios, nil
}
func (s *stubFirebase) RecibosCaja(context.Context) (map[string]map[string]interface{}, error) {
	if s.fallan["recibos"] {
		return nil, errFuente
	}
	return s.recibos, nil
}
func (s *stubFirebase) CuotasVendedores(context.Context) (map[string]map[string]interface{}, error) {
	if s.fallan["cuotas"] {
		return nil, errFuente
	}
	return s.cuotas, nil
}
func (s *stubFirebase) NumClientesPorVendedor(context.Context) (map[string]interface{}, error) {
	if s.fallan["num_clientes"] {
		return nil, errFuente
	}
	return s.numCli, nil
}
func (s *stubFirebase) AnalisisVendedores(context.Context) (map[string]map[string]map[string]interface{}, error) {
	if s.fallan["actividad"] {
		return nil, errFuente
	}
	return s.actividad, nil
}
func (s *stubFirebase) Maestro(_ context.Context, nombre string) (map[string]interface{}, error) {
	if s.fallan["maestros"] {
		return nil, errFuente
	}
	return s.maestros[nombre], nil
}
func (s *stubFirebase) VendedoresActivos(context.Context) ([]string, error) {
	if s.fallan["maestros"] {
		return nil, errFuente
	}
	return s.activos, nil
}
func (s *stubFirebase) ClientesID(context.Context) (map[string]map[string]interface{}, error) {
	if s.fallan["clientes"] {
		return nil, errFuente
	}
	return s.clientes, nil
}

type stubCompras struct {
	rows  []model.Compra
	falla bool
}

func (s *stubCompras) Mensuales(context.Context) ([]model.Compra, error) {
	if s.falla {
		return nil, errFuente
	}
	return s.rows, nil
}

func fuentePrueba() *stubFirebase {
	return &stubFirebase{
		ventas: map[string]map[string]map[string]interface{}{
			"V001": {
				"D1": {"cliente": "Farmacia Sol", "url": "Sol SAS", "nit": "900.1", "fecha": "20250702",
					"tipo": "Remision", "valor_bruto": 1200.0, "descuento": 200.0, "forma_pago": "FP1", "zona": "Norte"},
				"D2": {"cliente": "Farmacia Sol", "url": "Sol SAS", "nit": "9001", "fecha": "15/07/2025",
					"tipo": "Remision", "valor_bruto": 500.0, "descuento": 0.0, "forma_pago": "FP1", "zona": "Norte"},
				"D3": {"cliente": "Farmacia Sol", "url": "Sol SAS", "nit": "9001", "fecha": "2025-07-20",
					"tipo": "Devolucion", "valor_bruto": -200.0, "descuento": 0.0, "forma_pago": "FP1", "zona": "Norte"},
				"DX": {"cliente": "Sin Fecha", "fecha": "???", "tipo": "Remision", "valor_bruto": 10.0},
			},
			"X999": {
				"D9": {"cliente": "Otro", "fecha": "20250703", "tipo": "Remision", "valor_bruto": 300.0, "descuento": 0.0},
			},
		},
		convenios: map[string]map[string]interface{}{
			"900": {"client_name": "Farmacia Sol", "razon": "Sol SAS", "seller_name": "Vendedor Uno",
				"estado": "Confirmado", "rebate_pct": 0.05, "target_value": 10000000.0,
				"fecha_inicio": "2025-07-01", "fecha_fin": "2025-09-30"},
			"901": {"client_name": "Pendiente", "estado": "Borrador", "target_value": 500.0},
			"902": {"client_name": "Sin Meta", "estado": "Confirmado", "target_value": 0.0},
		},
		recibos: map[string]map[string]interface{}{
			"R1": {"id1": "C1", "valor_recibo": 800.0, "vendedor": "V001", "fecha": "20250710"},
			"R2": {"id1": "C1", "valor_recibo": 100.0, "vendedor": "V001", "fecha": "sin fecha"},
		},
		cuotas: map[string]map[string]interface{}{
			"202507": {"Vendedor Uno": 2000.0},
			"malmes": {"Vendedor Uno": 1.0},
		},
		numCli: map[string]interface{}{"Vendedor Uno": 60.0},
		actividad: map[string]map[string]map[string]interface{}{
			"V001": {
				"20250702": {
					"proveedores": map[string]interface{}{"LAB1": 1000.0},
					"clientes":    map[string]interface{}{"C1": 1000.0},
					"productos":   map[string]interface{}{"P1": 600.0, "P2": 400.0},
				},
			},
		},
		maestros: map[string]map[string]interface{}{
			"tipo_documentos":     {"RM": "Remision"},
			"codigos_vendedores":  {"V001": "Vendedor Uno"},
			"forma_pago_clientes": {"FP1": "Contado"},
			"codigos_labs":        {"LAB1": "Laboratorio Uno"},
		},
		activos:  []string{"Vendedor Uno"},
		clientes: map[string]map[string]interface{}{"C1": {"nit": "9001", "cliente_nombre": "Farmacia Sol", "estado": "ACTIVO", "vendedor": "V001"}},
	}
}

func TestReloadAllNormaliza(t *testing.T) {
	st := store.New()
	svc := New(fuentePrueba(), &stubCompras{rows: []model.Compra{{Codigo: "P1", Ventas: 60, Stock: 10}}}, st)

	snap, err := svc.ReloadAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, snap.Generation)

	// La fila sin fecha se descarta y se cuenta; las demás quedan normalizadas.
	assert.Len(t, snap.Ventas, 4)
	assert.Equal(t, 1, snap.Descartes["ventas"])

	primera := snap.Ventas[0]
	assert.Equal(t, "D1", primera.DocumentoID)
	assert.Equal(t, "Vendedor Uno", primera.Vendedor)
	assert.Equal(t, "9001", primera.NIT)
	assert.Equal(t, "Farmacia Sol – Sol SAS", primera.ClienteCompleto)
	assert.Equal(t, "2025-07", primera.Mes)
	assert.Equal(t, "2025-07 Julio", primera.MesNombre)
	assert.Equal(t, "Contado", primera.FormaPago)
	assert.Equal(t, "1000", primera.ValorNeto.String())

	// Código sin entrada en el catálogo -> Desconocido, la fila se conserva.
	var desconocidos int
	for _, v := range snap.Ventas {
		if v.Vendedor == model.VendedorDesconocido {
			desconocidos++
		}
	}
	assert.Equal(t, 1, desconocidos)

	// Convenios: solo confirmados con meta positiva.
	require.Len(t, snap.Convenios, 1)
	assert.Equal(t, "900", snap.Convenios[0].NIT)
	assert.InDelta(t, 5.0, snap.Convenios[0].DescuentoPct, 1e-9)
	assert.Equal(t, 1, snap.Descartes["convenios"])

	// Recibos: fila sin fecha descartada.
	require.Len(t, snap.Recibos, 1)
	assert.Equal(t, "Vendedor Uno", snap.Recibos[0].Vendedor)
	assert.Equal(t, 1, snap.Descartes["recibos"])

	// Cuotas: mes malformado descartado.
	assert.Contains(t, snap.Cuotas, "202507")
	assert.NotContains(t, snap.Cuotas, "malmes")
	assert.Equal(t, "2000", snap.Cuotas["202507"]["Vendedor Uno"].String())

	assert.Equal(t, 60, snap.NumClientes["Vendedor Uno"])

	// Compras con derivados calculados.
	require.Len(t, snap.Compras, 1)
	assert.InDelta(t, 6.0, snap.Compras[0].Rotacion, 1e-9)

	// Listas de filtros encabezadas por Todos.
	assert.Equal(t, []string{store.Todos, "Desconocido", "Vendedor Uno"}, snap.Vendedores)
	assert.Equal(t, []string{store.Todos, "2025-07"}, snap.Meses)
}

func TestReloadAllFallosIndependientes(t *testing.T) {
	fb := fuentePrueba()
	fb.fallan = map[string]bool{"convenios": true, "recibos": true}
	st := store.New()
	svc := New(fb, &stubCompras{falla: true}, st)

	snap, err := svc.ReloadAll(context.Background())
	require.NoError(t, err)

	// Los dominios caídos quedan vacíos con su error registrado; el resto carga.
	assert.Empty(t, snap.Convenios)
	assert.Empty(t, snap.Recibos)
	assert.Empty(t, snap.Compras)
	assert.Contains(t, snap.Errores, "convenios")
	assert.Contains(t, snap.Errores, "recibos")
	assert.Contains(t, snap.Errores, "compras")
	assert.NotEmpty(t, snap.Ventas)
}

func TestReloadAllContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := store.New()
	svc := New(fuentePrueba(), &stubCompras{}, st)

	_, err := svc.ReloadAll(ctx)
	assert.Error(t, err)
	// La carga parcial se descarta: el store conserva la generación previa.
	assert.EqualValues(t, 0, st.Current().Generation)
}

func TestReloadAllIdempotente(t *testing.T) {
	st := store.New()
	svc := New(fuentePrueba(), &stubCompras{}, st)

	a, err := svc.ReloadAll(context.Background())
	require.NoError(t, err)
	b, err := svc.ReloadAll(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, a.Generation+1, b.Generation)
	assert.Equal(t, a.Ventas, b.Ventas)
	assert.Equal(t, a.Convenios, b.Convenios)
	assert.Equal(t, a.Vendedores, b.Vendedores)
}
