package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/kometawizard/kometawizard/internal/installer"
	"github.com/kometawizard/kometawizard/internal/kometa"
	"github.com/kometawizard/kometawizard/internal/profile"
	"github.com/kometawizard/kometawizard/internal/runner"
	"github.com/kometawizard/kometawizard/internal/scheduler"
)

// generateYAML renders the active profile to Kometa YAML, writes it to the
// output directory and returns both the text and the path.
// POST /api/actions/generate-yaml
func (s *Server) generateYAML(c echo.Context) error {
	p := s.deps.Profiles.Active()

	text, err := s.deps.Generator.Generate(p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	path := s.outputPath(p)
	if err := s.deps.Generator.Save(p, path); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"yaml": text,
		"path": path,
	})
}

// getPreview returns the aggregated summary of the active profile.
// GET /api/preview
func (s *Server) getPreview(c echo.Context) error {
	return c.JSON(http.StatusOK, kometa.BuildPreview(s.deps.Profiles.Active()))
}

// importYAML parses an uploaded Kometa config into a fresh profile. The body
// is raw YAML text. On success the reconstructed profile becomes active; on
// partial failure the result is returned for the UI to show its warnings
// without touching the active profile.
// POST /api/import
func (s *Server) importYAML(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	result := s.deps.Importer.Import(string(body))
	if result.Success {
		s.deps.Profiles.SetActive(result.Profile)
	}
	return c.JSON(http.StatusOK, result)
}

// startRun generates the YAML for the active profile and launches Kometa.
// POST /api/actions/run-kometa
func (s *Server) startRun(c echo.Context) error {
	p := s.deps.Profiles.Active()

	path := s.outputPath(p)
	if err := s.deps.Generator.Save(p, path); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := s.deps.Runner.Start(p.Name, path, runner.TriggerManual); err != nil {
		if errors.Is(err, runner.ErrAlreadyRunning) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusAccepted, s.deps.Runner.Status())
}

// stopRun kills the running Kometa process.
// POST /api/actions/stop-kometa
func (s *Server) stopRun(c echo.Context) error {
	if err := s.deps.Runner.Stop(); err != nil {
		if errors.Is(err, runner.ErrNotRunning) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// runStatus reports the current run state.
// GET /api/actions/run-status
func (s *Server) runStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Runner.Status())
}

// setSchedule installs a recurring run of the active profile.
// POST /api/actions/create-schedule
func (s *Server) setSchedule(c echo.Context) error {
	var schedule scheduler.Schedule
	if err := c.Bind(&schedule); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if schedule.ProfileName == "" {
		schedule.ProfileName = s.deps.Profiles.Active().Name
	}

	if err := s.deps.Scheduler.Set(schedule); err != nil {
		if errors.Is(err, scheduler.ErrInvalidFrequency) || errors.Is(err, scheduler.ErrInvalidTime) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s.deps.Scheduler.Status())
}

// removeSchedule clears the configured schedule.
// POST /api/actions/remove-schedule
func (s *Server) removeSchedule(c echo.Context) error {
	if err := s.deps.Scheduler.Remove(); err != nil {
		if errors.Is(err, scheduler.ErrNoSchedule) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// scheduleStatus reports the configured schedule and its next firing time.
// GET /api/actions/schedule-status
func (s *Server) scheduleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Scheduler.Status())
}

// install starts a full Kometa installation in the background.
// POST /api/actions/install-kometa
func (s *Server) install(c echo.Context) error {
	if err := s.deps.Installer.Install(); err != nil {
		if errors.Is(err, installer.ErrInstallInProgress) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusAccepted, s.deps.Installer.Status())
}

// update pulls the latest Kometa code and refreshes requirements.
// POST /api/actions/update-kometa
func (s *Server) update(c echo.Context) error {
	if err := s.deps.Installer.Update(); err != nil {
		if errors.Is(err, installer.ErrInstallInProgress) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusAccepted, s.deps.Installer.Status())
}

// installStatus reports the installation state.
// GET /api/actions/installation-status
func (s *Server) installStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Installer.Status())
}

func (s *Server) outputPath(p *profile.Profile) string {
	return filepath.Join(s.deps.Config.Data.OutputDir, profile.SanitizeName(p.Name)+".yml")
}
