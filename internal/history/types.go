package history

import "time"

// Run is one recorded Kometa run.
type Run struct {
	ID          int64     `json:"id"`
	ProfileName string    `json:"profileName"`
	ConfigPath  string    `json:"configPath"`
	Trigger     string    `json:"trigger"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	ExitCode    int       `json:"exitCode"`
	Success     bool      `json:"success"`
}

// ListOptions filters and paginates run listings.
type ListOptions struct {
	ProfileName string
	Page        int
	PageSize    int
}

// ListResponse is a paginated page of runs.
type ListResponse struct {
	Items      []*Run `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalCount int64  `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
}
