package plex

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for Plex connectivity operations.
type Handlers struct {
	client *Client
	cache  *LibraryCache
	oauth  *OAuth
}

// NewHandlers creates a new Plex handlers instance.
func NewHandlers(client *Client, cache *LibraryCache, oauth *OAuth) *Handlers {
	return &Handlers{client: client, cache: cache, oauth: oauth}
}

// RegisterRoutes registers Plex routes on the /api/plex group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/validate-token", h.ValidateToken)
	g.POST("/libraries", h.Libraries)
	g.POST("/servers", h.Servers)
	g.POST("/oauth/start", h.OAuthStart)
	g.GET("/oauth/check", h.OAuthCheck)
	g.POST("/oauth/cancel", h.OAuthCancel)
}

type connectionRequest struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	VerifySSL *bool  `json:"verifySSL,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

func (r *connectionRequest) verify() bool {
	if r.VerifySSL == nil {
		return true
	}
	return *r.VerifySSL
}

// ValidateToken checks a server URL and token pair.
// POST /api/plex/validate-token
func (h *Handlers) ValidateToken(c echo.Context) error {
	var req connectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" || req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url and token are required")
	}

	if err := h.client.ValidateToken(c.Request().Context(), req.URL, req.Token, req.verify()); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

// Libraries lists the server's library sections, cached.
// POST /api/plex/libraries
func (h *Handlers) Libraries(c echo.Context) error {
	var req connectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" || req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url and token are required")
	}

	if req.Refresh {
		h.cache.Invalidate(req.URL, req.Token)
	} else if libraries, ok := h.cache.Get(req.URL, req.Token); ok {
		return c.JSON(http.StatusOK, libraries)
	}

	libraries, err := h.client.GetLibraries(c.Request().Context(), req.URL, req.Token, req.verify())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.cache.Put(req.URL, req.Token, libraries)
	return c.JSON(http.StatusOK, libraries)
}

// Servers lists the account's servers via plex.tv.
// POST /api/plex/servers
func (h *Handlers) Servers(c echo.Context) error {
	var req connectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	servers, err := h.client.DiscoverServers(c.Request().Context(), req.Token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, servers)
}

// OAuthStart begins the plex.tv pin sign-in flow.
// POST /api/plex/oauth/start
func (h *Handlers) OAuthStart(c echo.Context) error {
	status, err := h.oauth.Start(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, status)
}

// OAuthCheck polls the pending pin.
// GET /api/plex/oauth/check
func (h *Handlers) OAuthCheck(c echo.Context) error {
	status, err := h.oauth.Check(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNoPendingPin) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, status)
}

// OAuthCancel discards the pending pin.
// POST /api/plex/oauth/cancel
func (h *Handlers) OAuthCancel(c echo.Context) error {
	h.oauth.Cancel()
	return c.NoContent(http.StatusNoContent)
}
