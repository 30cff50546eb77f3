// Package runner launches the managed Kometa installation against a
// generated config file and streams its output to the log and websocket.
package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/config"
)

var (
	ErrAlreadyRunning = errors.New("a kometa run is already in progress")
	ErrNotRunning     = errors.New("no kometa run in progress")
)

// Triggers recorded with each run.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// Broadcaster pushes run output to connected websocket clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Recorder persists finished runs. Implemented by the history service.
type Recorder interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// RunRecord describes one finished run.
type RunRecord struct {
	ProfileName string
	ConfigPath  string
	Trigger     string
	StartedAt   time.Time
	FinishedAt  time.Time
	ExitCode    int
	Success     bool
}

// Status is the externally visible run state.
type Status struct {
	Running     bool      `json:"running"`
	ProfileName string    `json:"profileName,omitempty"`
	ConfigPath  string    `json:"configPath,omitempty"`
	Trigger     string    `json:"trigger,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
}

// Service runs Kometa as a child process. At most one run at a time; the
// second Start returns ErrAlreadyRunning.
type Service struct {
	cfg      config.KometaConfig
	hub      Broadcaster
	recorder Recorder
	logger   zerolog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	current Status
}

// NewService creates a new runner service. recorder may be nil.
func NewService(cfg config.KometaConfig, hub Broadcaster, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		hub:      hub,
		recorder: recorder,
		logger:   logger.With().Str("component", "runner").Logger(),
	}
}

// Start launches Kometa with the given config file. It returns as soon as
// the process is spawned; output streaming and completion handling run in
// the background.
func (s *Service) Start(profileName, configPath, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, s.pythonPath(), s.scriptPath(), "--config", configPath, "--run")
	cmd.Dir = s.cfg.InstallDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}

	s.cmd = cmd
	s.cancel = cancel
	s.current = Status{
		Running:     true,
		ProfileName: profileName,
		ConfigPath:  configPath,
		Trigger:     trigger,
		StartedAt:   time.Now().UTC(),
	}

	s.logger.Info().
		Str("profile", profileName).
		Str("config", configPath).
		Str("trigger", trigger).
		Msg("kometa run started")
	s.broadcast("run:started", s.current)

	go s.stream(stdout)
	go s.wait(cmd, s.current)

	return nil
}

// Stop kills the running process, if any.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return ErrNotRunning
	}
	s.cancel()
	s.logger.Info().Msg("kometa run stop requested")
	return nil
}

// Status returns the current run state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) stream(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s.logger.Info().Str("source", "kometa").Msg(line)
		s.broadcast("run:log", map[string]string{"line": line})
	}
}

func (s *Service) wait(cmd *exec.Cmd, status Status) {
	err := cmd.Wait()
	finishedAt := time.Now().UTC()

	exitCode := 0
	if err != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}
	success := exitCode == 0

	s.mu.Lock()
	s.cmd = nil
	s.cancel = nil
	s.current = Status{}
	s.mu.Unlock()

	s.logger.Info().
		Str("profile", status.ProfileName).
		Int("exitCode", exitCode).
		Bool("success", success).
		Msg("kometa run finished")
	s.broadcast("run:finished", map[string]any{
		"profileName": status.ProfileName,
		"exitCode":    exitCode,
		"success":     success,
	})

	if s.recorder != nil {
		rec := RunRecord{
			ProfileName: status.ProfileName,
			ConfigPath:  status.ConfigPath,
			Trigger:     status.Trigger,
			StartedAt:   status.StartedAt,
			FinishedAt:  finishedAt,
			ExitCode:    exitCode,
			Success:     success,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.recorder.RecordRun(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record run")
		}
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

// pythonPath returns the venv interpreter inside the managed installation.
func (s *Service) pythonPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(s.cfg.InstallDir, "venv", "Scripts", "python.exe")
	}
	return filepath.Join(s.cfg.InstallDir, "venv", "bin", "python")
}

func (s *Service) scriptPath() string {
	return filepath.Join(s.cfg.InstallDir, "kometa.py")
}
