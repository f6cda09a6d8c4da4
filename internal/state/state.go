// Package state persists user preferences and cached segment lists in a
// SQLite database under the XDG data directory.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/llehouerou/tubesync/internal/log"
)

const (
	dbRelPath    = "tubesync/tubesync.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager owns the state database. Preference writes are debounced; reads
// see the pending value before it reaches disk.
type Manager struct {
	db     *sql.DB
	logger zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *Preferences
}

// Open opens the database in the XDG data directory.
func Open() (*Manager, error) {
	path, err := xdg.DataFile(dbRelPath)
	if err != nil {
		return nil, fmt.Errorf("state path: %w", err)
	}
	return OpenPath(path)
}

// OpenPath opens or creates the database at path.
func OpenPath(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return newManager(conn), nil
}

func newManager(conn *sql.DB) *Manager {
	return &Manager{db: conn, logger: log.WithComponent("state")}
}

// Close writes any pending preferences and closes the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()
	m.flush()
	return m.db.Close()
}

func (m *Manager) GetPreferences() (Preferences, error) {
	m.mu.Lock()
	pending := m.pending
	m.mu.Unlock()
	if pending != nil {
		return *pending, nil
	}
	return getPreferences(m.db)
}

// SavePreferences queues prefs for writing. Toggles within the debounce
// window collapse into one write.
func (m *Manager) SavePreferences(prefs Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = &prefs
	if m.timer == nil {
		m.timer = time.AfterFunc(saveDebounce, m.flush)
		return
	}
	m.timer.Reset(saveDebounce)
}

func (m *Manager) flush() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	if pending == nil {
		return
	}
	if err := savePreferences(m.db, *pending); err != nil {
		m.logger.Error().Err(err).Str("event", "state.save_failed").Msg("failed to save preferences")
	}
}
