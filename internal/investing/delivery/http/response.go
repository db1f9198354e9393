package http

import (
	"net/http"
	"strconv"

	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// respondError writes the client safe message of err with the status of its kind.
// Internal causes are logged and never leave the server.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "Request failed",
			logger.ErrorField(err),
			logger.StringField("kind", string(kind)),
			logger.StringField("path", c.Path()),
		)
	}
	return c.JSON(status, echo.Map{"error": apperror.PublicMessage(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
