package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/entities"
	"github.com/yosbany/ordenes-sub000/pkg/recipe"
)

type (
	ProductService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, page, limit int) ([]domain.ProductResponse, int64, error)
		GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error)
		UpdatePrice(ctx context.Context, id string, req domain.UpdateProductPriceRequest) (domain.PriceUpdateResponse, error)
	}

	productService struct {
		productRepository ProductRepository
		recipeService     recipe.RecipeService
	}
)

func NewProductService(productRepository ProductRepository, recipeService recipe.RecipeService) ProductService {
	return &productService{
		productRepository: productRepository,
		recipeService:     recipeService,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error) {
	price, err := decimal.NewFromString(req.PricePerUnit)
	if err != nil || price.IsNegative() {
		return domain.ProductResponse{}, domain.ErrInvalidPrice
	}

	product := &entities.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		PricePerUnit: price,
		UnitMeasure:  req.UnitMeasure,
		IsActive:     true,
	}

	if err := s.productRepository.CreateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

func (s *productService) GetProducts(ctx context.Context, page, limit int) ([]domain.ProductResponse, int64, error) {
	products, count, err := s.productRepository.GetProducts(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.ProductResponse, 0, len(products))
	for _, product := range products {
		result = append(result, toProductResponse(product))
	}
	return result, count, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error) {
	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProductResponse{}, domain.ErrProductNotFound
		}
		return domain.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// UpdatePrice stores the new price and pushes the change through every
// recipe that uses the product, directly or through sub-recipes.
func (s *productService) UpdatePrice(ctx context.Context, id string, req domain.UpdateProductPriceRequest) (domain.PriceUpdateResponse, error) {
	price, err := decimal.NewFromString(req.PricePerUnit)
	if err != nil || price.IsNegative() {
		return domain.PriceUpdateResponse{}, domain.ErrInvalidPrice
	}

	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PriceUpdateResponse{}, domain.ErrProductNotFound
		}
		return domain.PriceUpdateResponse{}, err
	}

	if product.PricePerUnit.Equal(price) {
		return domain.PriceUpdateResponse{Product: toProductResponse(product)}, nil
	}

	product.PricePerUnit = price
	if err := s.productRepository.UpdateProduct(ctx, product); err != nil {
		return domain.PriceUpdateResponse{}, err
	}

	updated, failures, err := s.recipeService.RecalculateForProduct(ctx, id)
	if err != nil {
		return domain.PriceUpdateResponse{}, err
	}

	return domain.PriceUpdateResponse{
		Product:  toProductResponse(product),
		Updated:  updated,
		Failures: failures,
	}, nil
}

func toProductResponse(product *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:           product.ID.String(),
		Name:         product.Name,
		PricePerUnit: product.PricePerUnit.String(),
		UnitMeasure:  product.UnitMeasure,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt,
	}
}
