// Package installer manages the local Kometa installation: cloning the
// repository, creating the virtualenv and installing its requirements.
package installer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/config"
)

var ErrInstallInProgress = errors.New("an installation is already in progress")

// Broadcaster pushes install progress to connected websocket clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Status is the externally visible installation state.
type Status struct {
	Installed  bool   `json:"installed"`
	Installing bool   `json:"installing"`
	Step       string `json:"step,omitempty"`
	Progress   int    `json:"progress"`
	Error      string `json:"error,omitempty"`
}

type step struct {
	name string
	run  func() error
}

// Service installs and updates Kometa. Steps run sequentially and the whole
// installation aborts on the first failure. Re-running after a partial
// failure is safe: every step is idempotent.
type Service struct {
	cfg    config.KometaConfig
	hub    Broadcaster
	logger zerolog.Logger

	mu     sync.Mutex
	status Status
}

// NewService creates a new installer service.
func NewService(cfg config.KometaConfig, hub Broadcaster, logger zerolog.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		hub:    hub,
		logger: logger.With().Str("component", "installer").Logger(),
	}
	s.status.Installed = s.isInstalled()
	return s
}

// Status returns the current installation state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Installed = s.isInstalled()
	return st
}

// Install runs the full installation in the background.
func (s *Service) Install() error {
	return s.start([]step{
		{"checking python", s.checkPython},
		{"checking git", s.checkGit},
		{"cloning repository", s.cloneOrPull},
		{"creating virtualenv", s.createVenv},
		{"installing requirements", s.installRequirements},
	})
}

// Update pulls the latest code and refreshes the requirements.
func (s *Service) Update() error {
	return s.start([]step{
		{"checking git", s.checkGit},
		{"updating repository", s.cloneOrPull},
		{"installing requirements", s.installRequirements},
	})
}

func (s *Service) start(steps []step) error {
	s.mu.Lock()
	if s.status.Installing {
		s.mu.Unlock()
		return ErrInstallInProgress
	}
	s.status = Status{Installing: true}
	s.mu.Unlock()

	go s.run(steps)
	return nil
}

func (s *Service) run(steps []step) {
	total := len(steps)
	for i, st := range steps {
		s.setProgress(st.name, i*100/total)
		s.logger.Info().Str("step", st.name).Msg("install step started")

		if err := st.run(); err != nil {
			s.logger.Error().Err(err).Str("step", st.name).Msg("install step failed")
			s.finish(fmt.Sprintf("%s: %v", st.name, err))
			return
		}
	}
	s.setProgress("done", 100)
	s.finish("")
}

func (s *Service) setProgress(stepName string, pct int) {
	s.mu.Lock()
	s.status.Step = stepName
	s.status.Progress = pct
	st := s.status
	s.mu.Unlock()
	s.broadcast("install:progress", st)
}

func (s *Service) finish(errMsg string) {
	s.mu.Lock()
	s.status.Installing = false
	s.status.Error = errMsg
	s.status.Installed = s.isInstalled()
	st := s.status
	s.mu.Unlock()

	if errMsg == "" {
		s.logger.Info().Msg("installation finished")
		s.broadcast("install:finished", st)
	} else {
		s.broadcast("install:failed", st)
	}
}

func (s *Service) checkPython() error {
	out, err := exec.Command(s.cfg.Python, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("python not found (%q): %w", s.cfg.Python, err)
	}
	s.logger.Info().Str("version", string(out)).Msg("python found")
	return nil
}

func (s *Service) checkGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}
	return nil
}

func (s *Service) cloneOrPull() error {
	if _, err := os.Stat(filepath.Join(s.cfg.InstallDir, ".git")); err == nil {
		return s.runCommand(s.cfg.InstallDir, "git", "pull", "--ff-only")
	}

	if err := os.MkdirAll(filepath.Dir(s.cfg.InstallDir), 0o755); err != nil {
		return err
	}
	return s.runCommand("", "git", "clone", "--branch", s.cfg.Branch, "--depth", "1", s.cfg.RepoURL, s.cfg.InstallDir)
}

func (s *Service) createVenv() error {
	if _, err := os.Stat(s.venvPython()); err == nil {
		return nil
	}
	return s.runCommand(s.cfg.InstallDir, s.cfg.Python, "-m", "venv", "venv")
}

func (s *Service) installRequirements() error {
	return s.runCommand(s.cfg.InstallDir, s.venvPython(), "-m", "pip", "install", "-r", "requirements.txt")
}

func (s *Service) runCommand(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return err
	}
	s.streamOutput(stdout)
	return cmd.Wait()
}

func (s *Service) streamOutput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s.logger.Info().Str("source", "installer").Msg(line)
		s.broadcast("install:log", map[string]string{"line": line})
	}
}

func (s *Service) broadcast(msgType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Broadcast(msgType, payload); err != nil {
		s.logger.Warn().Err(err).Str("type", msgType).Msg("broadcast failed")
	}
}

// isInstalled checks for the script and the venv interpreter.
func (s *Service) isInstalled() bool {
	if _, err := os.Stat(filepath.Join(s.cfg.InstallDir, "kometa.py")); err != nil {
		return false
	}
	_, err := os.Stat(s.venvPython())
	return err == nil
}

func (s *Service) venvPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(s.cfg.InstallDir, "venv", "Scripts", "python.exe")
	}
	return filepath.Join(s.cfg.InstallDir, "venv", "bin", "python")
}
