package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrEmptyName     = errors.New("profile name is empty")
)

// Store persists profiles as one JSON file per profile in a fixed directory.
// The filename is the sanitized profile name.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a profile store rooted at dir, creating it if needed.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "profilestore").Logger(),
	}, nil
}

// Create creates and persists a new empty profile. Names are unique
// case-insensitively.
func (s *Store) Create(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	existing, err := s.ListNames()
	if err != nil {
		return nil, err
	}
	for _, n := range existing {
		if strings.EqualFold(n, name) {
			return nil, ErrAlreadyExists
		}
	}

	p := New(name)
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a profile by name.
func (s *Store) Load(name string) (*Profile, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read profile %q: %w", name, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}
	normalize(&p)
	return &p, nil
}

// Save upserts a profile and bumps its LastModified timestamp.
func (s *Store) Save(p *Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}

	p.LastModified = time.Now().UTC()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile %q: %w", p.Name, err)
	}
	if err := os.WriteFile(s.path(p.Name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile %q: %w", p.Name, err)
	}
	return nil
}

// Delete removes a profile's file.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// ListNames returns the stored profile names sorted alphabetically.
func (s *Store) ListNames() ([]string, error) {
	profiles, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names, nil
}

// List loads every profile in the store. Corrupt or unreadable files are
// skipped with a logged warning rather than failing the whole load.
func (s *Store) List() ([]*Profile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable profile file")
			continue
		}
		var p Profile
		if err := json.Unmarshal(data, &p); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping corrupt profile file")
			continue
		}
		normalize(&p)
		profiles = append(profiles, &p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, SanitizeName(name)+".json")
}

// SanitizeName turns a profile name into a filesystem-safe filename stem.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "profile"
	}
	return b.String()
}

// normalize backfills nil maps/slices after a JSON round trip so callers can
// mutate without nil checks.
func normalize(p *Profile) {
	if p.SelectedLibraries == nil {
		p.SelectedLibraries = []string{}
	}
	if p.SelectedCharts == nil {
		p.SelectedCharts = map[string]bool{}
	}
	if p.OverlaySettings == nil {
		p.OverlaySettings = map[string]*OverlayConfiguration{}
	}
	if p.CollectionAdvancedSettings == nil {
		p.CollectionAdvancedSettings = map[string]*CollectionAdvancedConfig{}
	}
	if p.MyCollectionAdvancedSettings == nil {
		p.MyCollectionAdvancedSettings = map[string]*CollectionAdvancedConfig{}
	}
	if p.OptionalServices == nil {
		p.OptionalServices = map[string]string{}
	}
	if p.EnabledServices == nil {
		p.EnabledServices = map[string]bool{}
	}
}
