package http

import (
	"net/http"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles portfolio and holding requests of the session owner.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Rename)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/valuation", h.Valuation)
	g.POST("/:id/holdings", h.Buy)
	g.PUT("/:id/holdings/:holdingId", h.UpdateHolding)
	g.POST("/:id/holdings/:holdingId/sell", h.Sell)
	g.DELETE("/:id/holdings/:holdingId", h.Liquidate)
}

// List godoc
// @Summary List portfolios
// @Tags portfolios
// @Produce  json
// @Success 200 {array} dto.PortfolioResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios [get]
func (h *PortfolioHandler) List(c echo.Context) error {
	portfolios, err := h.portfolioService.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolios)
}

// Create godoc
// @Summary Create a portfolio
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   portfolio  body  dto.CreatePortfolioRequest  true  "Portfolio to create"
// @Success 201 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /portfolios [post]
func (h *PortfolioHandler) Create(c echo.Context) error {
	var req dto.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	portfolio, err := h.portfolioService.Create(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, portfolio)
}

// Get godoc
// @Summary Get a portfolio
// @Description Portfolio with holdings and derived valuation
// @Tags portfolios
// @Produce  json
// @Param   id  path  int  true  "Portfolio ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id} [get]
func (h *PortfolioHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}
	portfolio, err := h.portfolioService.Get(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

// Rename godoc
// @Summary Rename a portfolio
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   id         path  int                         true  "Portfolio ID"
// @Param   portfolio  body  dto.UpdatePortfolioRequest  true  "New name"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id} [put]
func (h *PortfolioHandler) Rename(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}
	var req dto.UpdatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	portfolio, err := h.portfolioService.Rename(c.Request().Context(), currentUserID(c), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

// Delete godoc
// @Summary Delete a portfolio
// @Tags portfolios
// @Param   id  path  int  true  "Portfolio ID"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id} [delete]
func (h *PortfolioHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}
	if err := h.portfolioService.Delete(c.Request().Context(), currentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Valuation godoc
// @Summary Portfolio valuation
// @Description Total value at the latest catalog prices. Unresolvable holdings are listed as warnings.
// @Tags portfolios
// @Produce  json
// @Param   id  path  int  true  "Portfolio ID"
// @Success 200 {object} dto.ValuationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id}/valuation [get]
func (h *PortfolioHandler) Valuation(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}
	valuation, err := h.portfolioService.Valuation(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, valuation)
}

// Buy godoc
// @Summary Buy into a portfolio
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   id       path  int                    true  "Portfolio ID"
// @Param   holding  body  dto.BuyHoldingRequest  true  "Asset, quantity and price"
// @Success 201 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id}/holdings [post]
func (h *PortfolioHandler) Buy(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}
	var req dto.BuyHoldingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	portfolio, err := h.portfolioService.Buy(c.Request().Context(), currentUserID(c), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, portfolio)
}

// UpdateHolding godoc
// @Summary Change a holding
// @Description Set quantity and/or purchase price. Quantity 0 removes the holding.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   id         path  int                       true  "Portfolio ID"
// @Param   holdingId  path  int                       true  "Holding ID"
// @Param   holding    body  dto.UpdateHoldingRequest  true  "New values"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id}/holdings/{holdingId} [put]
func (h *PortfolioHandler) UpdateHolding(c echo.Context) error {
	id, holdingID, ok := holdingPath(c)
	if !ok {
		return badRequest(c, "Invalid portfolio or holding ID")
	}
	var req dto.UpdateHoldingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	portfolio, err := h.portfolioService.UpdateHolding(c.Request().Context(), currentUserID(c), id, holdingID, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

// Sell godoc
// @Summary Sell part of a holding
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   id         path  int                     true  "Portfolio ID"
// @Param   holdingId  path  int                     true  "Holding ID"
// @Param   sale       body  dto.SellHoldingRequest  true  "Quantity to sell"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id}/holdings/{holdingId}/sell [post]
func (h *PortfolioHandler) Sell(c echo.Context) error {
	id, holdingID, ok := holdingPath(c)
	if !ok {
		return badRequest(c, "Invalid portfolio or holding ID")
	}
	var req dto.SellHoldingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	portfolio, err := h.portfolioService.Sell(c.Request().Context(), currentUserID(c), id, holdingID, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

// Liquidate godoc
// @Summary Remove a holding
// @Tags portfolios
// @Produce  json
// @Param   id         path  int  true  "Portfolio ID"
// @Param   holdingId  path  int  true  "Holding ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{id}/holdings/{holdingId} [delete]
func (h *PortfolioHandler) Liquidate(c echo.Context) error {
	id, holdingID, ok := holdingPath(c)
	if !ok {
		return badRequest(c, "Invalid portfolio or holding ID")
	}
	portfolio, err := h.portfolioService.Liquidate(c.Request().Context(), currentUserID(c), id, holdingID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

func holdingPath(c echo.Context) (uint, uint, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return 0, 0, false
	}
	holdingID, ok := parseID(c, "holdingId")
	return id, holdingID, ok
}
