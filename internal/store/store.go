// Package store holds the process-local fact snapshots. A snapshot is
// immutable once installed; the loader builds a complete replacement and
// swaps the pointer, so readers always see one consistent generation for the
// duration of an operation.
package store

import (
	"sync/atomic"
	"time"

	"emesanalytics/internal/model"

	"github.com/shopspring/decimal"
)

// Todos is the wildcard filter value for vendor and month parameters.
const Todos = "Todos"

// Snapshot is one immutable generation of every loaded fact table.
type Snapshot struct {
	Generation uint64
	CargadoEn  time.Time

	Ventas    []model.Venta
	Clientes  []model.Cliente
	Convenios []model.Convenio
	Recibos   []model.Recibo
	Compras   []model.Compra

	// Cuotas: YYYYMM -> vendedor -> monto.
	Cuotas map[string]map[string]decimal.Decimal
	// NumClientes: vendedor -> clientes asignados.
	NumClientes map[string]int
	// Actividad: codigo de vendedor -> días de actividad (analisis_vendedores).
	Actividad map[string][]model.ActividadDia

	Maestros model.Maestros

	// Vendedores y Meses son las listas de filtros derivadas de las ventas,
	// encabezadas por "Todos".
	Vendedores []string
	Meses      []string

	// Diagnóstico por dominio: filas descartadas y errores de carga.
	Descartes map[string]int
	Errores   map[string]string
}

// NewEmptySnapshot returns generation zero with every table empty. Analytics
// over it yield well-typed empty results.
func NewEmptySnapshot() *Snapshot {
	return &Snapshot{
		Cuotas:      map[string]map[string]decimal.Decimal{},
		NumClientes: map[string]int{},
		Actividad:   map[string][]model.ActividadDia{},
		Vendedores:  []string{Todos},
		Meses:       []string{Todos},
		Descartes:   map[string]int{},
		Errores:     map[string]string{},
	}
}

// Store swaps snapshots atomically. The only writer is the loader.
type Store struct {
	actual atomic.Pointer[Snapshot]
}

func New() *Store {
	s := &Store{}
	s.actual.Store(NewEmptySnapshot())
	return s
}

// Current returns the installed snapshot. Never nil.
func (s *Store) Current() *Snapshot { return s.actual.Load() }

// Install publishes a new generation. Readers in progress keep the snapshot
// they already hold.
func (s *Store) Install(snap *Snapshot) { s.actual.Store(snap) }
