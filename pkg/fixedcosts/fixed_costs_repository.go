package fixedcosts

import (
	"context"

	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/entities"
)

type (
	FixedCostsRepository interface {
		GetForPeriod(ctx context.Context, month, year int) (*entities.MonthlyFixedCosts, error)
		Upsert(ctx context.Context, record *entities.MonthlyFixedCosts) error
	}

	fixedCostsRepository struct {
		db *gorm.DB
	}
)

func NewFixedCostsRepository(db *gorm.DB) FixedCostsRepository {
	return &fixedCostsRepository{db: db}
}

func (r *fixedCostsRepository) GetForPeriod(ctx context.Context, month, year int) (*entities.MonthlyFixedCosts, error) {
	var record entities.MonthlyFixedCosts
	if err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *fixedCostsRepository) Upsert(ctx context.Context, record *entities.MonthlyFixedCosts) error {
	return r.db.WithContext(ctx).Save(record).Error
}
