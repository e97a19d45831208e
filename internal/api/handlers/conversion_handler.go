package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/internal/api/presenters"
	"github.com/yosbany/ordenes-sub000/pkg/conversion"
)

type (
	ConversionHandler interface {
		CreateConversion(c *fiber.Ctx) error
		GetConversions(c *fiber.Ctx) error
		UpdateConversion(c *fiber.Ctx) error
		DeleteConversion(c *fiber.Ctx) error
	}

	conversionHandler struct {
		conversionService conversion.ConversionService
		validator         *validator.Validate
	}
)

func NewConversionHandler(conversionService conversion.ConversionService, validator *validator.Validate) ConversionHandler {
	return &conversionHandler{
		conversionService: conversionService,
		validator:         validator,
	}
}

func (h *conversionHandler) CreateConversion(c *fiber.Ctx) error {
	req := new(domain.CreateConversionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateConversion, err)
	}

	res, err := h.conversionService.CreateConversion(c.Context(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrConversionExists) {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCreateConversion, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateConversion, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateConversion)
}

func (h *conversionHandler) GetConversions(c *fiber.Ctx) error {
	res, err := h.conversionService.GetConversions(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetConversions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetConversions)
}

func (h *conversionHandler) UpdateConversion(c *fiber.Ctx) error {
	conversionID := c.Params("id")
	req := new(domain.UpdateConversionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateConversion, err)
	}

	res, err := h.conversionService.UpdateConversion(c.Context(), conversionID, *req)
	if err != nil {
		if errors.Is(err, domain.ErrConversionNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateConversion, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateConversion, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateConversion)
}

func (h *conversionHandler) DeleteConversion(c *fiber.Ctx) error {
	conversionID := c.Params("id")

	if err := h.conversionService.DeleteConversion(c.Context(), conversionID); err != nil {
		if errors.Is(err, domain.ErrConversionNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteConversion, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteConversion, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteConversion)
}
