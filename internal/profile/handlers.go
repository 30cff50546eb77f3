package profile

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for profile operations.
type Handlers struct {
	manager *Manager
}

// NewHandlers creates a new profile handlers instance.
func NewHandlers(manager *Manager) *Handlers {
	return &Handlers{manager: manager}
}

// RegisterRoutes registers profile routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/profiles", h.List)
	g.POST("/profiles", h.Create)
	g.DELETE("/profiles/:name", h.Delete)
	g.POST("/profiles/:name/activate", h.Activate)
	g.GET("/profile", h.GetActive)
	g.PUT("/profile", h.PutActive)
	g.POST("/profile/save", h.SaveActive)
}

type createRequest struct {
	Name string `json:"name"`
}

// List returns all stored profiles.
// GET /api/profiles
func (h *Handlers) List(c echo.Context) error {
	profiles, err := h.manager.Store().List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if profiles == nil {
		profiles = []*Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

// Create creates a new named profile and makes it active.
// POST /api/profiles
func (h *Handlers) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.manager.Store().Create(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.manager.SetActive(p)
	return c.JSON(http.StatusCreated, p)
}

// Delete removes a stored profile.
// DELETE /api/profiles/:name
func (h *Handlers) Delete(c echo.Context) error {
	name := c.Param("name")
	if err := h.manager.Store().Delete(name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Activate loads a stored profile as the active one.
// POST /api/profiles/:name/activate
func (h *Handlers) Activate(c echo.Context) error {
	p, err := h.manager.Activate(c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

// GetActive returns the active profile.
// GET /api/profile
func (h *Handlers) GetActive(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manager.Active())
}

// PutActive replaces the active profile with the submitted document. The UI
// sends the whole profile on every edit; validation happens at generate time.
// PUT /api/profile
func (h *Handlers) PutActive(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile document")
	}
	normalize(&p)
	h.manager.SetActive(&p)
	return c.JSON(http.StatusOK, &p)
}

// SaveActive persists the active profile to disk.
// POST /api/profile/save
func (h *Handlers) SaveActive(c echo.Context) error {
	if err := h.manager.SaveActive(); err != nil {
		if errors.Is(err, ErrEmptyName) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.manager.Active())
}
