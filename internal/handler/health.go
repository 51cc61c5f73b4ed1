package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health responds to GET /api/health.  Load balancers and monitoring
// systems use it to verify that the service is up.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
