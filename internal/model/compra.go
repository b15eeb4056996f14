package model

// Compra is one monthly purchases/inventory row from the warehouse table
// compras.mensuales. Base columns come straight from SQL; derived columns are
// computed at load and never persisted.
type Compra struct {
	ID              int64   `gorm:"column:id;primaryKey"`
	Codigo          string  `gorm:"column:codigo"`
	Descripcion     string  `gorm:"column:descripcion"`
	Compras         float64 `gorm:"column:compras"`
	CostoCompras    float64 `gorm:"column:costo_compras"`
	DevCompras      float64 `gorm:"column:dev_compras"`
	CostoDevCompras float64 `gorm:"column:costo_dev_compras"`
	Ventas          float64 `gorm:"column:ventas"`
	CostoVentas     float64 `gorm:"column:costo_ventas"`
	DevVentas       float64 `gorm:"column:dev_ventas"`
	CostoDevVentas  float64 `gorm:"column:costo_dev_ventas"`
	Stock           float64 `gorm:"column:stock"`
	CostoStock      float64 `gorm:"column:costo_stock"`
	CostoUltimo     float64 `gorm:"column:costo_ultimo"`
	NIT             string  `gorm:"column:nit"`
	Razon           string  `gorm:"column:razon"` // laboratorio

	// Derived
	ComprasNetas      float64 `gorm:"-"`
	CostoComprasNetas float64 `gorm:"-"`
	VentasNetas       float64 `gorm:"-"`
	CostoVentasNetas  float64 `gorm:"-"`
	Rotacion          float64 `gorm:"-"`
	DiasInventario    float64 `gorm:"-"` // 999 sentinel when there are no net sales
	MargenUnitario    float64 `gorm:"-"`
	CategoriaRotacion string  `gorm:"-"` // Muy Baja | Baja | Media | Alta
	Critico           bool    `gorm:"-"`
}

func (Compra) TableName() string { return "compras.mensuales" }

// DiasInventarioSentinel marks rows with no net sales, where days-of-stock
// is undefined.
const DiasInventarioSentinel = 999

// CalcularDerivados fills every derived column from the base ones.
func (c *Compra) CalcularDerivados() {
	c.ComprasNetas = c.Compras - c.DevCompras
	c.CostoComprasNetas = c.CostoCompras - c.CostoDevCompras
	c.VentasNetas = c.Ventas - c.DevVentas
	c.CostoVentasNetas = c.CostoVentas - c.CostoDevVentas

	// The denominator floors at 1 so a sold-out product with movement still
	// carries its real rotation and can flag as critical.
	divisorStock := c.Stock
	if divisorStock < 1 {
		divisorStock = 1
	}
	c.Rotacion = c.VentasNetas / divisorStock

	if c.VentasNetas > 0 {
		c.DiasInventario = c.Stock / (c.VentasNetas / 30)
		c.MargenUnitario = c.CostoVentasNetas/c.VentasNetas - c.CostoUltimo
	} else {
		c.DiasInventario = DiasInventarioSentinel
		c.MargenUnitario = 0
	}

	switch {
	case c.Rotacion <= 1:
		c.CategoriaRotacion = "Muy Baja"
	case c.Rotacion <= 3:
		c.CategoriaRotacion = "Baja"
	case c.Rotacion <= 6:
		c.CategoriaRotacion = "Media"
	default:
		c.CategoriaRotacion = "Alta"
	}

	c.Critico = c.Stock <= 10 && c.Rotacion > 2
}
