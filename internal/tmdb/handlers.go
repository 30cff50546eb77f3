package tmdb

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for TMDb operations.
type Handlers struct {
	client *Client
}

// NewHandlers creates a new TMDb handlers instance.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// RegisterRoutes registers TMDb routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/tmdb/validate", h.Validate)
}

type validateRequest struct {
	APIKey string `json:"apiKey"`
}

// Validate checks a TMDb API key.
// POST /api/tmdb/validate
func (h *Handlers) Validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.client.ValidateKey(c.Request().Context(), req.APIKey)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]bool{"valid": true})
	case errors.Is(err, ErrAPIKeyMissing):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidAPIKey):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
