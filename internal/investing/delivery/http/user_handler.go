package http

import (
	"net/http"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler handles account and session requests.
type UserHandler struct {
	authService service.AuthService
	cookies     CookieConfig
	logger      *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService service.AuthService, cookies CookieConfig, logger *logger.Logger) *UserHandler {
	return &UserHandler{authService: authService, cookies: cookies, logger: logger}
}

// RegisterRoutes registers the user routes to the Echo group.
func (h *UserHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe, requireAuth)
}

// Signup godoc
// @Summary Create an account
// @Description Register a user and start a session cookie
// @Tags user
// @Accept  json
// @Produce  json
// @Param   user  body    dto.SignupRequest   true    "Account to create"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	res, err := h.authService.Signup(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.SetCookie(h.cookies.sessionCookie(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusCreated, dto.AuthResponse{Message: "User registered successfully", User: res.User})
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and start a session cookie
// @Tags user
// @Accept  json
// @Produce  json
// @Param   credentials  body    dto.LoginRequest   true    "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	res, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		// an unknown email is a failed login, not a missing resource
		if apperror.Is(err, apperror.KindNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperror.PublicMessage(err)})
		}
		return respondError(c, h.logger, err)
	}

	c.SetCookie(h.cookies.sessionCookie(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusOK, dto.AuthResponse{Message: "Login successful", User: res.User})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session cookie. Safe to call without a session.
// @Tags user
// @Produce  json
// @Success 200 {object} dto.MessageResponse
// @Router /user/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookies.clearedCookie())
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Current user
// @Description Return the profile of the session owner
// @Tags user
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	cookie, err := c.Cookie(h.cookies.name())
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	user, err := h.authService.Identity(c.Request().Context(), cookie.Value)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update profile
// @Description Edit the profile of the session owner
// @Tags user
// @Accept  json
// @Produce  json
// @Param   profile  body    dto.UpdateProfileRequest   true    "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, user)
}
