package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers serves the static defaults catalog to the browser UI.
type Handlers struct{}

// NewHandlers creates a new catalog handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// RegisterRoutes registers catalog routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/collections", h.ListCollections)
	g.GET("/overlays", h.ListOverlays)
	g.GET("/services", h.ListServices)
}

// ListCollections returns the default collections catalog.
// GET /api/defaults/collections
func (h *Handlers) ListCollections(c echo.Context) error {
	return c.JSON(http.StatusOK, Collections())
}

// ListOverlays returns the overlay catalog.
// GET /api/defaults/overlays
func (h *Handlers) ListOverlays(c echo.Context) error {
	return c.JSON(http.StatusOK, Overlays())
}

// ListServices returns the optional-service schemas.
// GET /api/defaults/services
func (h *Handlers) ListServices(c echo.Context) error {
	return c.JSON(http.StatusOK, Services())
}
