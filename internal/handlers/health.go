package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterHealthRoutes registers the liveness endpoint
func RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
}
