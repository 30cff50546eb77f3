// Package scheduler runs Kometa on a recurring schedule. Schedules are kept
// in-process via gocron and persisted as a JSON file so they survive
// restarts.
package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNoSchedule       = errors.New("no schedule configured")
	ErrInvalidFrequency = errors.New("invalid schedule frequency")
	ErrInvalidTime      = errors.New("invalid schedule time, expected HH:MM")
)

// Schedule frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Schedule describes one recurring run of the active profile.
type Schedule struct {
	ProfileName string `json:"profileName"`
	Frequency   string `json:"frequency"`
	Time        string `json:"time"`                 // "HH:MM", local time
	Weekday     int    `json:"weekday,omitempty"`    // 0=Sunday, weekly only
	DayOfMonth  int    `json:"dayOfMonth,omitempty"` // monthly only
}

// Status reports the configured schedule and its next firing time.
type Status struct {
	Scheduled bool       `json:"scheduled"`
	Schedule  *Schedule  `json:"schedule,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
}

// RunFunc launches a scheduled run for the named profile.
type RunFunc func(profileName string) error

// Service owns the single configured schedule.
type Service struct {
	path   string
	runFn  RunFunc
	logger zerolog.Logger

	mu        sync.Mutex
	scheduler gocron.Scheduler
	jobID     uuid.UUID
	schedule  *Schedule
}

// NewService creates the scheduler and restores any persisted schedule.
// path is the JSON file the schedule is persisted to.
func NewService(path string, runFn RunFunc, logger zerolog.Logger) (*Service, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Service{
		path:      path,
		runFn:     runFn,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		scheduler: sched,
	}
	sched.Start()

	if err := s.restore(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore persisted schedule")
	}
	return s, nil
}

// Set replaces the current schedule.
func (s *Service) Set(schedule Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(schedule); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist schedule")
	}
	s.logger.Info().
		Str("profile", schedule.ProfileName).
		Str("frequency", schedule.Frequency).
		Str("time", schedule.Time).
		Msg("schedule set")
	return nil
}

// Remove clears the current schedule.
func (s *Service) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == nil {
		return ErrNoSchedule
	}
	if err := s.scheduler.RemoveJob(s.jobID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to remove job")
	}
	s.schedule = nil
	s.jobID = uuid.Nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.logger.Info().Msg("schedule removed")
	return nil
}

// Status reports the current schedule.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == nil {
		return Status{}
	}
	st := Status{Scheduled: true, Schedule: s.schedule}
	for _, job := range s.scheduler.Jobs() {
		if job.ID() == s.jobID {
			if next, err := job.NextRun(); err == nil {
				st.NextRun = &next
			}
			break
		}
	}
	return st
}

// Shutdown stops the underlying scheduler.
func (s *Service) Shutdown() error {
	return s.scheduler.Shutdown()
}

// apply installs the schedule as a gocron job, replacing any existing one.
// Caller holds the lock.
func (s *Service) apply(schedule Schedule) error {
	atTime, err := parseAtTime(schedule.Time)
	if err != nil {
		return err
	}

	var def gocron.JobDefinition
	switch schedule.Frequency {
	case FrequencyDaily:
		def = gocron.DailyJob(1, gocron.NewAtTimes(atTime))
	case FrequencyWeekly:
		def = gocron.WeeklyJob(1, gocron.NewWeekdays(time.Weekday(schedule.Weekday)), gocron.NewAtTimes(atTime))
	case FrequencyMonthly:
		def = gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(schedule.DayOfMonth), gocron.NewAtTimes(atTime))
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, schedule.Frequency)
	}

	profileName := schedule.ProfileName
	job, err := s.scheduler.NewJob(def, gocron.NewTask(func() {
		s.logger.Info().Str("profile", profileName).Msg("scheduled run firing")
		if err := s.runFn(profileName); err != nil {
			s.logger.Error().Err(err).Str("profile", profileName).Msg("scheduled run failed to start")
		}
	}))
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	if s.schedule != nil {
		if err := s.scheduler.RemoveJob(s.jobID); err != nil {
			s.logger.Warn().Err(err).Msg("failed to remove previous job")
		}
	}
	s.jobID = job.ID()
	s.schedule = &schedule
	return nil
}

func (s *Service) persist() error {
	data, err := json.MarshalIndent(s.schedule, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Service) restore() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var schedule Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(schedule); err != nil {
		return err
	}
	s.logger.Info().Str("profile", schedule.ProfileName).Msg("schedule restored")
	return nil
}

func parseAtTime(value string) (gocron.AtTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return gocron.NewAtTime(uint(hour), uint(minute), 0), nil
}
