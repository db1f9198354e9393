package http

import (
	"net/http"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GoalHandler handles goal requests of the session owner.
type GoalHandler struct {
	goalService service.GoalService
	logger      *logger.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService, logger *logger.Logger) *GoalHandler {
	return &GoalHandler{goalService: goalService, logger: logger}
}

// RegisterRoutes registers the goal routes to the Echo group.
func (h *GoalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List goals
// @Tags goals
// @Produce  json
// @Success 200 {array} entity.Goal
// @Failure 401 {object} dto.ErrorResponse
// @Router /goals [get]
func (h *GoalHandler) List(c echo.Context) error {
	goals, err := h.goalService.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, goals)
}

// Create godoc
// @Summary Create a goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goal  body  dto.CreateGoalRequest  true  "Goal to create"
// @Success 201 {object} entity.Goal
// @Failure 400 {object} dto.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c echo.Context) error {
	var req dto.CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	goal, err := h.goalService.Create(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, goal)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce  json
// @Param   id  path  int  true  "Goal ID"
// @Success 200 {object} entity.Goal
// @Failure 404 {object} dto.ErrorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}
	goal, err := h.goalService.Get(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, goal)
}

// Update godoc
// @Summary Update a goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id    path  int                    true  "Goal ID"
// @Param   goal  body  dto.UpdateGoalRequest  true  "Fields to change"
// @Success 200 {object} entity.Goal
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}
	var req dto.UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	goal, err := h.goalService.Update(c.Request().Context(), currentUserID(c), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, goal)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Param   id  path  int  true  "Goal ID"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}
	if err := h.goalService.Delete(c.Request().Context(), currentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
