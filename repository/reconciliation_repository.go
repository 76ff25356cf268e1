package repository

import (
	"context"

	"checkout-service/models"

	"gorm.io/gorm"
)

// ReconciliationRepository stores charge-reconciliation records for manual
// review. Writes happen when a successful charge is left without a fully
// consistent order.
type ReconciliationRepository interface {
	Create(ctx context.Context, rec *models.ChargeReconciliation) error
	ListOpen(ctx context.Context) ([]models.ChargeReconciliation, error)
}

type GormReconciliationRepository struct {
	db *gorm.DB
}

func NewGormReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

func (r *GormReconciliationRepository) Create(ctx context.Context, rec *models.ChargeReconciliation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormReconciliationRepository) ListOpen(ctx context.Context) ([]models.ChargeReconciliation, error) {
	var recs []models.ChargeReconciliation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReconciliationOpen).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
