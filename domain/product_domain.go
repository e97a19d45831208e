package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetProducts        = "products retrieved successfully"
	MessageSuccessCreateProduct      = "product created successfully"
	MessageSuccessUpdateProductPrice = "product price updated successfully"

	MessageFailedGetProducts        = "failed to retrieve products"
	MessageFailedCreateProduct      = "failed to create product"
	MessageFailedUpdateProductPrice = "failed to update product price"

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

type (
	CreateProductRequest struct {
		Name         string `json:"name" validate:"required"`
		PricePerUnit string `json:"price_per_unit" validate:"required"`
		UnitMeasure  string `json:"unit_measure" validate:"required"`
	}

	UpdateProductPriceRequest struct {
		PricePerUnit string `json:"price_per_unit" validate:"required"`
	}

	ProductResponse struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		PricePerUnit string    `json:"price_per_unit"`
		UnitMeasure  string    `json:"unit_measure"`
		IsActive     bool      `json:"is_active"`
		CreatedAt    time.Time `json:"created_at"`
	}

	PriceUpdateResponse struct {
		Product  ProductResponse      `json:"product"`
		Updated  []string             `json:"updated_recipes"`
		Failures []PropagationFailure `json:"failures,omitempty"`
	}
)
