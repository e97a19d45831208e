package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetFixedCosts    = "fixed costs retrieved successfully"
	MessageSuccessUpsertFixedCosts = "fixed costs saved successfully"

	MessageFailedGetFixedCosts    = "failed to retrieve fixed costs"
	MessageFailedUpsertFixedCosts = "failed to save fixed costs"

	ErrFixedCostsNotFound = errors.New("no fixed costs recorded for period")
	ErrInvalidPeriod      = errors.New("invalid month or year")
)

type (
	UpsertFixedCostsRequest struct {
		Month               int     `json:"month" validate:"required,min=1,max=12"`
		Year                int     `json:"year" validate:"required,min=2000"`
		FixedCostPercentage float64 `json:"fixed_cost_percentage" validate:"gte=0,lt=100"`
	}

	FixedCostsResponse struct {
		ID                  string    `json:"id"`
		Month               int       `json:"month"`
		Year                int       `json:"year"`
		FixedCostPercentage float64   `json:"fixed_cost_percentage"`
		LastUpdated         time.Time `json:"last_updated"`
	}

	UpsertFixedCostsResponse struct {
		FixedCosts FixedCostsResponse   `json:"fixed_costs"`
		Updated    []string             `json:"updated_recipes"`
		Failures   []PropagationFailure `json:"failures,omitempty"`
	}
)
