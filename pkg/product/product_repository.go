package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/entities"
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		GetProducts(ctx context.Context, page, limit int) ([]*entities.Product, int64, error)
		GetAllProducts(ctx context.Context) ([]entities.Product, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProducts(ctx context.Context, page, limit int) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Product{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("name asc").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

// GetAllProducts loads the read-only snapshot the costing engine prices
// against.
func (r *productRepository) GetAllProducts(ctx context.Context) ([]entities.Product, error) {
	var products []entities.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
