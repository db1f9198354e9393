package http

import (
	"net/http"

	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler relays market news.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/india", h.India)
}

// India godoc
// @Summary Indian stock news
// @Description Top articles about Indian stocks published today
// @Tags news
// @Produce  json
// @Success 200 {array} dto.Article
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/india [get]
func (h *NewsHandler) India(c echo.Context) error {
	articles, err := h.newsService.TodayIndia(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, articles)
}
