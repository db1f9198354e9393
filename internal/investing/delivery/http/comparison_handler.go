package http

import (
	"net/http"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ComparisonHandler handles comparison requests of the session owner.
type ComparisonHandler struct {
	comparisonService service.ComparisonService
	logger            *logger.Logger
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(comparisonService service.ComparisonService, logger *logger.Logger) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService, logger: logger}
}

// RegisterRoutes registers the comparison routes to the Echo group.
func (h *ComparisonHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List comparisons
// @Tags comparisons
// @Produce  json
// @Success 200 {array} entity.Comparison
// @Router /comparisons [get]
func (h *ComparisonHandler) List(c echo.Context) error {
	comparisons, err := h.comparisonService.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, comparisons)
}

// Create godoc
// @Summary Compare two catalog items
// @Description Snapshots both items and records which one is better
// @Tags comparisons
// @Accept  json
// @Produce  json
// @Param   comparison  body  dto.CreateComparisonRequest  true  "Items to compare"
// @Success 201 {object} entity.Comparison
// @Failure 400 {object} dto.ErrorResponse
// @Router /comparisons [post]
func (h *ComparisonHandler) Create(c echo.Context) error {
	var req dto.CreateComparisonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	comparison, err := h.comparisonService.Create(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, comparison)
}

// Get godoc
// @Summary Get a comparison
// @Tags comparisons
// @Produce  json
// @Param   id  path  int  true  "Comparison ID"
// @Success 200 {object} entity.Comparison
// @Failure 404 {object} dto.ErrorResponse
// @Router /comparisons/{id} [get]
func (h *ComparisonHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid comparison ID")
	}
	comparison, err := h.comparisonService.Get(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, comparison)
}

// Delete godoc
// @Summary Delete a comparison
// @Tags comparisons
// @Param   id  path  int  true  "Comparison ID"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /comparisons/{id} [delete]
func (h *ComparisonHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid comparison ID")
	}
	if err := h.comparisonService.Delete(c.Request().Context(), currentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
