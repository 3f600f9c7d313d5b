package records

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the record lookup endpoints on an authenticated
// route group.
func RegisterRoutes(g *echo.Group, h *RecordHandler) {
	g.GET("/records", h.Search)
}
