package fixedcosts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/entities"
	"github.com/yosbany/ordenes-sub000/pkg/recipe"
)

type (
	FixedCostsService interface {
		GetFixedCosts(ctx context.Context, month, year int) (domain.FixedCostsResponse, error)
		UpsertFixedCosts(ctx context.Context, req domain.UpsertFixedCostsRequest) (domain.UpsertFixedCostsResponse, error)
	}

	fixedCostsService struct {
		fixedCostsRepository FixedCostsRepository
		recipeService        recipe.RecipeService
	}
)

func NewFixedCostsService(fixedCostsRepository FixedCostsRepository, recipeService recipe.RecipeService) FixedCostsService {
	return &fixedCostsService{
		fixedCostsRepository: fixedCostsRepository,
		recipeService:        recipeService,
	}
}

func (s *fixedCostsService) GetFixedCosts(ctx context.Context, month, year int) (domain.FixedCostsResponse, error) {
	if month < 1 || month > 12 || year < 2000 {
		return domain.FixedCostsResponse{}, domain.ErrInvalidPeriod
	}

	record, err := s.fixedCostsRepository.GetForPeriod(ctx, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FixedCostsResponse{}, domain.ErrFixedCostsNotFound
		}
		return domain.FixedCostsResponse{}, err
	}
	return toFixedCostsResponse(record), nil
}

// UpsertFixedCosts stores the monthly overhead percentage and, when the
// period is the current one, sweeps the new markup through every recipe.
func (s *fixedCostsService) UpsertFixedCosts(ctx context.Context, req domain.UpsertFixedCostsRequest) (domain.UpsertFixedCostsResponse, error) {
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return domain.UpsertFixedCostsResponse{}, domain.ErrInvalidPeriod
	}

	now := time.Now()
	record, err := s.fixedCostsRepository.GetForPeriod(ctx, req.Month, req.Year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpsertFixedCostsResponse{}, err
		}
		record = &entities.MonthlyFixedCosts{
			ID:    uuid.New(),
			Month: req.Month,
			Year:  req.Year,
		}
	}

	record.FixedCostPercentage = req.FixedCostPercentage
	record.LastUpdated = now
	if err := s.fixedCostsRepository.Upsert(ctx, record); err != nil {
		return domain.UpsertFixedCostsResponse{}, err
	}

	response := domain.UpsertFixedCostsResponse{FixedCosts: toFixedCostsResponse(record)}

	// Only the active period drives current pricing; a backdated or future
	// record leaves stored figures alone.
	if req.Month != int(now.Month()) || req.Year != now.Year() {
		return response, nil
	}

	sweep, err := s.recipeService.RecalculateAll(ctx, req.FixedCostPercentage)
	if err != nil {
		return domain.UpsertFixedCostsResponse{}, err
	}
	response.Updated = sweep.Updated
	response.Failures = sweep.Failures
	return response, nil
}

func toFixedCostsResponse(record *entities.MonthlyFixedCosts) domain.FixedCostsResponse {
	return domain.FixedCostsResponse{
		ID:                  record.ID.String(),
		Month:               record.Month,
		Year:                record.Year,
		FixedCostPercentage: record.FixedCostPercentage,
		LastUpdated:         record.LastUpdated,
	}
}
