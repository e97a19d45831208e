package domain

import (
	"errors"
)

var (
	MessageSuccessGetConversions   = "unit conversions retrieved successfully"
	MessageSuccessCreateConversion = "unit conversion created successfully"
	MessageSuccessUpdateConversion = "unit conversion updated successfully"
	MessageSuccessDeleteConversion = "unit conversion deleted successfully"

	MessageFailedGetConversions   = "failed to retrieve unit conversions"
	MessageFailedCreateConversion = "failed to create unit conversion"
	MessageFailedUpdateConversion = "failed to update unit conversion"
	MessageFailedDeleteConversion = "failed to delete unit conversion"

	ErrConversionNotFound = errors.New("unit conversion not found")
	ErrConversionExists   = errors.New("unit conversion already exists for this pair")
	ErrInvalidFactor      = errors.New("conversion factor must be positive")
	ErrSameUnitConversion = errors.New("conversion must relate two different units")
)

type (
	CreateConversionRequest struct {
		FromUnit string  `json:"from_unit" validate:"required"`
		ToUnit   string  `json:"to_unit" validate:"required"`
		Factor   float64 `json:"factor" validate:"required,gt=0"`
	}

	UpdateConversionRequest struct {
		Factor float64 `json:"factor" validate:"required,gt=0"`
	}

	ConversionResponse struct {
		ID       string  `json:"id"`
		FromUnit string  `json:"from_unit"`
		ToUnit   string  `json:"to_unit"`
		Factor   float64 `json:"factor"`
	}
)
