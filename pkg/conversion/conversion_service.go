package conversion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/entities"
)

type (
	ConversionService interface {
		CreateConversion(ctx context.Context, req domain.CreateConversionRequest) (domain.ConversionResponse, error)
		GetConversions(ctx context.Context) ([]domain.ConversionResponse, error)
		UpdateConversion(ctx context.Context, id string, req domain.UpdateConversionRequest) (domain.ConversionResponse, error)
		DeleteConversion(ctx context.Context, id string) error
	}

	conversionService struct {
		conversionRepository ConversionRepository
	}
)

func NewConversionService(conversionRepository ConversionRepository) ConversionService {
	return &conversionService{conversionRepository: conversionRepository}
}

func (s *conversionService) CreateConversion(ctx context.Context, req domain.CreateConversionRequest) (domain.ConversionResponse, error) {
	if req.FromUnit == req.ToUnit {
		return domain.ConversionResponse{}, domain.ErrSameUnitConversion
	}
	if req.Factor <= 0 {
		return domain.ConversionResponse{}, domain.ErrInvalidFactor
	}

	// One stored entry per direction; the reciprocal is derived at
	// resolution time.
	if _, err := s.conversionRepository.GetConversionByPair(ctx, req.FromUnit, req.ToUnit); err == nil {
		return domain.ConversionResponse{}, domain.ErrConversionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ConversionResponse{}, err
	}

	conversion := &entities.UnitConversion{
		ID:       uuid.New(),
		FromUnit: req.FromUnit,
		ToUnit:   req.ToUnit,
		Factor:   req.Factor,
	}
	if err := s.conversionRepository.CreateConversion(ctx, conversion); err != nil {
		return domain.ConversionResponse{}, err
	}
	return toConversionResponse(conversion), nil
}

func (s *conversionService) GetConversions(ctx context.Context) ([]domain.ConversionResponse, error) {
	conversions, err := s.conversionRepository.GetAllConversions(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ConversionResponse, 0, len(conversions))
	for i := range conversions {
		result = append(result, toConversionResponse(&conversions[i]))
	}
	return result, nil
}

func (s *conversionService) UpdateConversion(ctx context.Context, id string, req domain.UpdateConversionRequest) (domain.ConversionResponse, error) {
	if req.Factor <= 0 {
		return domain.ConversionResponse{}, domain.ErrInvalidFactor
	}

	conversion, err := s.conversionRepository.GetConversionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ConversionResponse{}, domain.ErrConversionNotFound
		}
		return domain.ConversionResponse{}, err
	}

	conversion.Factor = req.Factor
	if err := s.conversionRepository.UpdateConversion(ctx, conversion); err != nil {
		return domain.ConversionResponse{}, err
	}
	return toConversionResponse(conversion), nil
}

func (s *conversionService) DeleteConversion(ctx context.Context, id string) error {
	if _, err := s.conversionRepository.GetConversionByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrConversionNotFound
		}
		return err
	}
	return s.conversionRepository.DeleteConversion(ctx, id)
}

func toConversionResponse(conversion *entities.UnitConversion) domain.ConversionResponse {
	return domain.ConversionResponse{
		ID:       conversion.ID.String(),
		FromUnit: conversion.FromUnit,
		ToUnit:   conversion.ToUnit,
		Factor:   conversion.Factor,
	}
}
