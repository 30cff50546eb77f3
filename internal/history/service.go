// Package history records finished Kometa runs in SQLite and serves them to
// the UI.
package history

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/runner"
)

// Service provides run-history persistence.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// RecordRun persists one finished run. Satisfies the runner's Recorder.
func (s *Service) RecordRun(ctx context.Context, rec runner.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (profile_name, config_path, trigger_type, started_at, finished_at, exit_code, success)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ProfileName, rec.ConfigPath, rec.Trigger, rec.StartedAt, rec.FinishedAt, rec.ExitCode, rec.Success,
	)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("profile", rec.ProfileName).Bool("success", rec.Success).Msg("run recorded")
	return nil
}

// List lists runs, newest first, with pagination and optional profile filter.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}

	where := ""
	args := []any{}
	if opts.ProfileName != "" {
		where = "WHERE profile_name = ?"
		args = append(args, opts.ProfileName)
	}

	var totalCount int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs "+where, args...).Scan(&totalCount); err != nil {
		return nil, err
	}

	query := `
		SELECT id, profile_name, config_path, trigger_type, started_at, finished_at, exit_code, success
		FROM runs ` + where + `
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0, opts.PageSize)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ProfileName, &r.ConfigPath, &r.Trigger, &r.StartedAt, &r.FinishedAt, &r.ExitCode, &r.Success); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int(totalCount) / opts.PageSize
	if int(totalCount)%opts.PageSize > 0 {
		totalPages++
	}

	return &ListResponse{
		Items:      runs,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// DeleteAll deletes all recorded runs.
func (s *Service) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	return err
}
