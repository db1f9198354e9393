package http

import (
	"net/http"

	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RecommendHandler exposes the recommendation gateway.
type RecommendHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendHandler {
	return &RecommendHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation routes. Both routes require a session.
func (h *RecommendHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/recommend/:userId", h.Recommend, requireAuth)
	g.GET("/recommendations", h.History, requireAuth)
}

// Recommend godoc
// @Summary Run the recommender
// @Description Recommendations for the session owner. The path user must match the session.
// @Tags recommendations
// @Produce  json
// @Param   userId  path  int  true  "User ID"
// @Success 200 {object} dto.RecommendationResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommend/{userId} [get]
func (h *RecommendHandler) Recommend(c echo.Context) error {
	userID, ok := parseID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if userID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}

	result, err := h.recommendationService.Recommend(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary Recommendation history
// @Description Past recommendations of the session owner, newest first
// @Tags recommendations
// @Produce  json
// @Success 200 {array} entity.Recommendation
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations [get]
func (h *RecommendHandler) History(c echo.Context) error {
	history, err := h.recommendationService.History(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, history)
}
