package conversion

import (
	"context"

	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/entities"
)

type (
	ConversionRepository interface {
		CreateConversion(ctx context.Context, conversion *entities.UnitConversion) error
		GetConversionByID(ctx context.Context, id string) (*entities.UnitConversion, error)
		GetConversionByPair(ctx context.Context, fromUnit, toUnit string) (*entities.UnitConversion, error)
		GetAllConversions(ctx context.Context) ([]entities.UnitConversion, error)
		UpdateConversion(ctx context.Context, conversion *entities.UnitConversion) error
		DeleteConversion(ctx context.Context, id string) error
	}

	conversionRepository struct {
		db *gorm.DB
	}
)

func NewConversionRepository(db *gorm.DB) ConversionRepository {
	return &conversionRepository{db: db}
}

func (r *conversionRepository) CreateConversion(ctx context.Context, conversion *entities.UnitConversion) error {
	return r.db.WithContext(ctx).Create(conversion).Error
}

func (r *conversionRepository) GetConversionByID(ctx context.Context, id string) (*entities.UnitConversion, error) {
	var conversion entities.UnitConversion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversion).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

func (r *conversionRepository) GetConversionByPair(ctx context.Context, fromUnit, toUnit string) (*entities.UnitConversion, error) {
	var conversion entities.UnitConversion
	if err := r.db.WithContext(ctx).
		Where("from_unit = ? AND to_unit = ?", fromUnit, toUnit).
		First(&conversion).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

// GetAllConversions loads the table snapshot handed to the costing engine.
func (r *conversionRepository) GetAllConversions(ctx context.Context) ([]entities.UnitConversion, error) {
	var conversions []entities.UnitConversion
	if err := r.db.WithContext(ctx).
		Order("from_unit asc, to_unit asc").
		Find(&conversions).Error; err != nil {
		return nil, err
	}
	return conversions, nil
}

func (r *conversionRepository) UpdateConversion(ctx context.Context, conversion *entities.UnitConversion) error {
	return r.db.WithContext(ctx).Save(conversion).Error
}

func (r *conversionRepository) DeleteConversion(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.UnitConversion{}).Error
}
