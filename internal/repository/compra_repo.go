package repository

import (
	"context"

	"emesanalytics/internal/model"

	"gorm.io/gorm"
)

// CompraRepository reads the monthly purchases fact from the warehouse.
// The engine never writes to this table.
type CompraRepository interface {
	Mensuales(ctx context.Context) ([]model.Compra, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) Mensuales(ctx context.Context) ([]model.Compra, error) {
	var rows []model.Compra
	err := r.db.WithContext(ctx).Order("codigo").Find(&rows).Error
	return rows, err
}
