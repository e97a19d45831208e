package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/internal/api/presenters"
	"github.com/yosbany/ordenes-sub000/pkg/fixedcosts"
)

type (
	FixedCostsHandler interface {
		GetFixedCosts(c *fiber.Ctx) error
		UpsertFixedCosts(c *fiber.Ctx) error
	}

	fixedCostsHandler struct {
		fixedCostsService fixedcosts.FixedCostsService
		validator         *validator.Validate
	}
)

func NewFixedCostsHandler(fixedCostsService fixedcosts.FixedCostsService, validator *validator.Validate) FixedCostsHandler {
	return &fixedCostsHandler{
		fixedCostsService: fixedCostsService,
		validator:         validator,
	}
}

func (h *fixedCostsHandler) GetFixedCosts(c *fiber.Ctx) error {
	now := time.Now()

	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFixedCosts, domain.ErrInvalidPeriod)
	}

	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFixedCosts, domain.ErrInvalidPeriod)
	}

	res, err := h.fixedCostsService.GetFixedCosts(c.Context(), month, year)
	if err != nil {
		if errors.Is(err, domain.ErrFixedCostsNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetFixedCosts, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFixedCosts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFixedCosts)
}

func (h *fixedCostsHandler) UpsertFixedCosts(c *fiber.Ctx) error {
	req := new(domain.UpsertFixedCostsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpsertFixedCosts, err)
	}

	res, err := h.fixedCostsService.UpsertFixedCosts(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpsertFixedCosts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpsertFixedCosts)
}
