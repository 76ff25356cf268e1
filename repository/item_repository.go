package repository

import (
	"context"
	"errors"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository is the inventory ledger seen by the checkout flow. Catalog
// writes live in the product service; this interface only reads items and
// adjusts inventory levels.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	// LevelsByID fetches inventory levels for all ids in one query. Ids with
	// no catalog row are absent from the result.
	LevelsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	// MarkSoldOut zeroes inventory for the given items (legacy reconcile policy).
	MarkSoldOut(ctx context.Context, ids []uuid.UUID) error
	// DecrementLevels subtracts the purchased quantity per item, floored at
	// zero so the level never goes negative.
	DecrementLevels(ctx context.Context, quantities map[uuid.UUID]int) error
}

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) ItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) LevelsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	var rows []models.Item
	err := r.db.WithContext(ctx).
		Select("id", "inventory_level").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	levels := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		levels[row.ID] = row.InventoryLevel
	}
	return levels, nil
}

func (r *GormItemRepository) MarkSoldOut(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id IN ?", ids).
		Update("inventory_level", 0).Error
}

func (r *GormItemRepository) DecrementLevels(ctx context.Context, quantities map[uuid.UUID]int) error {
	if len(quantities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, qty := range quantities {
			err := tx.Model(&models.Item{}).
				Where("id = ?", id).
				Update("inventory_level", gorm.Expr("GREATEST(inventory_level - ?, 0)", qty)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
