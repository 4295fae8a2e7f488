package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pricing-service/internal/entity"
	"pricing-service/internal/formula"
	"pricing-service/internal/pricing"
	"pricing-service/internal/service"
)

// PricingHandler handles pricing-related requests.
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new PricingHandler instance.
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// CalculatePrice prices a product specification with the active formula for
// its product type.
func (h *PricingHandler) CalculatePrice(c echo.Context) error {
	var spec entity.ProductSpecification
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
	}

	result, err := h.pricingService.CalculatePrice(c.Request().Context(), &spec)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// GetQuantityTiers returns the tier list of the active formula for a
// product type.
func (h *PricingHandler) GetQuantityTiers(c echo.Context) error {
	tiers, err := h.pricingService.GetQuantityTiers(c.Request().Context(), c.Param("productType"))
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, tiers)
}

// CreateFormula creates a new pricing formula.
func (h *PricingHandler) CreateFormula(c echo.Context) error {
	var f entity.PricingFormula
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
	}

	created, err := h.pricingService.CreateFormula(c.Request().Context(), &f)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateFormula replaces an existing pricing formula.
func (h *PricingHandler) UpdateFormula(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid formula id"})
	}

	var f entity.PricingFormula
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
	}
	f.ID = id

	updated, err := h.pricingService.UpdateFormula(c.Request().Context(), &f)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, updated)
}

// GetFormula fetches one pricing formula.
func (h *PricingHandler) GetFormula(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid formula id"})
	}

	f, err := h.pricingService.GetFormula(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, f)
}

// ListFormulas lists every active pricing formula.
func (h *PricingHandler) ListFormulas(c echo.Context) error {
	formulas, err := h.pricingService.ListActiveFormulas(c.Request().Context())
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, formulas)
}

// DeleteFormula removes a pricing formula.
func (h *PricingHandler) DeleteFormula(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid formula id"})
	}

	if err := h.pricingService.DeleteFormula(c.Request().Context(), id); err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}

// statusFor maps the engine's typed errors to HTTP status codes. Bad input
// is 400, missing formulas 404, and deterministic calculation failures
// (tier, paper type, formula) 422: the request was well-formed but cannot be
// priced with the current configuration.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrFormulaNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrQuantityBelowMinimum),
		errors.Is(err, pricing.ErrNoTierMatch),
		errors.Is(err, pricing.ErrUnknownPaperType),
		errors.Is(err, formula.ErrUnboundVariable),
		errors.Is(err, formula.ErrFormulaSyntax),
		errors.Is(err, formula.ErrFormulaEvaluation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
