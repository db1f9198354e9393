package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers groups everything mounted under /api.
type Handlers struct {
	User       *UserHandler
	Master     *MasterHandler
	Portfolio  *PortfolioHandler
	Goal       *GoalHandler
	Comparison *ComparisonHandler
	Recommend  *RecommendHandler
	News       *NewsHandler
}

// RegisterRoutes mounts the api routes on e. Owned resources sit behind the session cookie.
func RegisterRoutes(e *echo.Echo, h Handlers, auth Authenticator, cookies CookieConfig) {
	requireAuth := RequireAuth(auth, cookies)

	api := e.Group("/api")
	h.User.RegisterRoutes(api.Group("/user"), requireAuth)
	h.Master.RegisterRoutes(api.Group("/master"))
	h.News.RegisterRoutes(api.Group("/news"))
	h.Recommend.RegisterRoutes(api, requireAuth)
	h.Portfolio.RegisterRoutes(api.Group("/portfolios", requireAuth))
	h.Goal.RegisterRoutes(api.Group("/goals", requireAuth))
	h.Comparison.RegisterRoutes(api.Group("/comparisons", requireAuth))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
