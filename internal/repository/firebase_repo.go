package repository

import (
	"context"

	"firebase.google.com/go/v4/db"
)

// FirebaseRepository reads the raw operational collections from the
// hierarchical KV store. Values come back as loosely typed maps; the loader
// normalizes them into model records (coercion happens at that edge, nowhere
// downstream).
type FirebaseRepository interface {
	// VentasVendedor: vendedor -> documento_id -> campos.
	VentasVendedor(ctx context.Context) (map[string]map[string]map[string]interface{}, error)
	// Convenios: nit -> campos.
	Convenios(ctx context.Context) (map[string]map[string]interface{}, error)
	// RecibosCaja: recibo_id -> campos.
	RecibosCaja(ctx context.Context) (map[string]map[string]interface{}, error)
	// CuotasVendedores: YYYYMM -> vendedor -> monto.
	CuotasVendedores(ctx context.Context) (map[string]map[string]interface{}, error)
	// NumClientesPorVendedor: vendedor -> total de clientes asignados.
	NumClientesPorVendedor(ctx context.Context) (map[string]interface{}, error)
	// AnalisisVendedores: codigo vendedor -> YYYYMMDD -> {proveedores, clientes, productos}.
	AnalisisVendedores(ctx context.Context) (map[string]map[string]map[string]interface{}, error)
	// Maestro reads one lookup table under maestros/ (tipo_documentos,
	// codigos_vendedores, forma_pago_clientes, codigos_labs).
	Maestro(ctx context.Context, nombre string) (map[string]interface{}, error)
	// VendedoresActivos: maestros/vendedores_activos, a plain list of names.
	VendedoresActivos(ctx context.Context) ([]string, error)
	// ClientesID: maestros/clientes_id, id1 -> campos.
	ClientesID(ctx context.Context) (map[string]map[string]interface{}, error)
}

type firebaseRepo struct{ client *db.Client }

func NewFirebaseRepository(client *db.Client) FirebaseRepository {
	return &firebaseRepo{client: client}
}

func (r *firebaseRepo) VentasVendedor(ctx context.Context) (map[string]map[string]map[string]interface{}, error) {
	var out map[string]map[string]map[string]interface{}
	if err := r.client.NewRef("ventas_vendedor").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) Convenios(ctx context.Context) (map[string]map[string]interface{}, error) {
	var out map[string]map[string]interface{}
	if err := r.client.NewRef("convenios").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) RecibosCaja(ctx context.Context) (map[string]map[string]interface{}, error) {
	var out map[string]map[string]interface{}
	if err := r.client.NewRef("recibos_caja").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) CuotasVendedores(ctx context.Context) (map[string]map[string]interface{}, error) {
	var out map[string]map[string]interface{}
	if err := r.client.NewRef("cuotas_vendedores").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) NumClientesPorVendedor(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := r.client.NewRef("num_clientes_por_vendedor").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) AnalisisVendedores(ctx context.Context) (map[string]map[string]map[string]interface{}, error) {
	var out map[string]map[string]map[string]interface{}
	if err := r.client.NewRef("analisis_vendedores").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) Maestro(ctx context.Context, nombre string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := r.client.NewRef("maestros/"+nombre).Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) VendedoresActivos(ctx context.Context) ([]string, error) {
	var out []string
	if err := r.client.NewRef("maestros/vendedores_activos").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *firebaseRepo) ClientesID(ctx context.Context) (map[string]map[string]interface{}, error) {
	var out map[string]map[string]interface{}
	if err := r.client.NewRef("maestros/clientes_id").Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
