package model

import "github.com/shopspring/decimal"

// Cliente is one row of the client catalog (maestros/clientes_id).
type Cliente struct {
	ID1             string // internal client id, join key against ventas and recibos
	NIT             string
	Nombre          string
	NombreComercial string
	Ciudad          string
	Departamento    string
	Direccion       string
	Telefono        string
	Vendedor        string // assigned vendor name
	Zona            string
	Subzona         string
	ListaPrecios    string
	FormaPago       string
	Estado          string
	CupoCredito     decimal.Decimal
	Lat             float64
	Long            float64
}

func (c Cliente) Activo() bool { return c.Estado == "ACTIVO" }
