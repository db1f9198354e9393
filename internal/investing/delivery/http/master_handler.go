package http

import (
	"net/http"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MasterHandler serves the read-only catalog.
type MasterHandler struct {
	masterService service.MasterService
	logger        *logger.Logger
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(masterService service.MasterService, logger *logger.Logger) *MasterHandler {
	return &MasterHandler{masterService: masterService, logger: logger}
}

// RegisterRoutes registers the catalog routes to the Echo group.
func (h *MasterHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stocks", h.ListStocks)
	g.GET("/stocks/:symbol", h.GetStock)
	g.GET("/funds", h.ListFunds)
	g.GET("/funds/:symbol", h.GetFund)
}

func bindPage(c echo.Context) (dto.Page, error) {
	var page dto.Page
	err := echo.QueryParamsBinder(c).
		Int("limit", &page.Limit).
		Int("offset", &page.Offset).
		BindError()
	return page, err
}

// ListStocks godoc
// @Summary List stocks
// @Description Stock catalog with price history ordered by date
// @Tags master
// @Produce  json
// @Param   limit   query  int  false  "Page size"
// @Param   offset  query  int  false  "Page offset"
// @Success 200 {array} entity.StockMaster
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /master/stocks [get]
func (h *MasterHandler) ListStocks(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return badRequest(c, "limit and offset must be integers")
	}
	stocks, err := h.masterService.ListStocks(c.Request().Context(), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStock godoc
// @Summary Get a stock
// @Tags master
// @Produce  json
// @Param   symbol  path  string  true  "Stock symbol"
// @Success 200 {object} entity.StockMaster
// @Failure 404 {object} dto.ErrorResponse
// @Router /master/stocks/{symbol} [get]
func (h *MasterHandler) GetStock(c echo.Context) error {
	stock, err := h.masterService.GetStock(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// ListFunds godoc
// @Summary List mutual funds
// @Description Mutual fund catalog with NAV history ordered by date
// @Tags master
// @Produce  json
// @Param   limit   query  int  false  "Page size"
// @Param   offset  query  int  false  "Page offset"
// @Success 200 {array} entity.MutualFundMaster
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /master/funds [get]
func (h *MasterHandler) ListFunds(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return badRequest(c, "limit and offset must be integers")
	}
	funds, err := h.masterService.ListFunds(c.Request().Context(), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, funds)
}

// GetFund godoc
// @Summary Get a mutual fund
// @Tags master
// @Produce  json
// @Param   symbol  path  string  true  "Fund symbol or ISIN"
// @Success 200 {object} entity.MutualFundMaster
// @Failure 404 {object} dto.ErrorResponse
// @Router /master/funds/{symbol} [get]
func (h *MasterHandler) GetFund(c echo.Context) error {
	fund, err := h.masterService.GetFund(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, fund)
}
