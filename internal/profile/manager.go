package profile

import (
	"sync"

	"github.com/rs/zerolog"
)

// Manager holds the active profile and guards all mutations behind one lock.
// The wizard edits a single profile at a time; every handler that touches the
// active profile goes through here.
type Manager struct {
	store  *Store
	logger zerolog.Logger

	mu     sync.Mutex
	active *Profile
}

// NewManager creates a manager with a fresh unsaved profile as the active one.
func NewManager(store *Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.With().Str("component", "profiles").Logger(),
		active: New("Default"),
	}
}

// Store exposes the underlying profile store.
func (m *Manager) Store() *Store {
	return m.store
}

// Active returns a snapshot pointer to the active profile. Callers must not
// mutate it; use Update for changes.
func (m *Manager) Active() *Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SetActive replaces the active profile wholesale.
func (m *Manager) SetActive(p *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = p
}

// Update applies fn to the active profile under the lock.
func (m *Manager) Update(fn func(p *Profile)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.active)
}

// Activate loads the named profile from the store and makes it active.
func (m *Manager) Activate(name string) (*Profile, error) {
	p, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.active = p
	m.mu.Unlock()
	m.logger.Info().Str("profile", p.Name).Msg("profile activated")
	return p, nil
}

// SaveActive persists the active profile under its current name.
func (m *Manager) SaveActive() error {
	m.mu.Lock()
	p := m.active
	m.mu.Unlock()
	return m.store.Save(p)
}
