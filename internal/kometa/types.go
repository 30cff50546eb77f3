package kometa

import "github.com/kometawizard/kometawizard/internal/profile"

// Warning severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Warning is one diagnostic produced while importing a YAML file, tagged with
// the config section it concerns.
type Warning struct {
	Section  string `json:"section"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ImportResult is the complete outcome of one import pass. Profile is always
// populated, even when Success is false: the importer reconstructs as much as
// it can and leaves the caller to decide whether to proceed.
type ImportResult struct {
	Success      bool             `json:"success"`
	Profile      *profile.Profile `json:"profile"`
	Preview      *Preview         `json:"preview"`
	Warnings     []Warning        `json:"warnings"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// HasErrors reports whether any warning carries error severity.
func (r *ImportResult) HasErrors() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Preview is the read-side aggregation over a profile shown after an import
// or before a run. Purely informational; no independent state.
type Preview struct {
	LibraryCount    int            `json:"libraryCount"`
	CollectionCount int            `json:"collectionCount"`
	OverlayCount    int            `json:"overlayCount"`
	OverlayTypes    []string       `json:"overlayTypes"`
	EnabledServices []string       `json:"enabledServices"`
	ByBuilderLevel  map[string]int `json:"byBuilderLevel"`
	Summary         string         `json:"summary"`
}
