package state

import (
	"sync"
	"time"

	"github.com/llehouerou/tubesync/internal/skip"
)

type mockEntry struct {
	segments  []skip.Segment
	fetchedAt time.Time
}

// Mock is a test double for Manager.
type Mock struct {
	mu       sync.Mutex
	prefs    Preferences
	screenID string
	segments map[string]mockEntry
	saves    int
	closed   bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		prefs:    DefaultPreferences(),
		screenID: "mock-screen",
		segments: make(map[string]mockEntry),
	}
}

func (m *Mock) GetPreferences() (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, nil
}

func (m *Mock) SavePreferences(prefs Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = prefs
	m.saves++
}

func (m *Mock) ScreenID() (string, error) { return m.screenID, nil }

func (m *Mock) GetSegments(videoID string) ([]skip.Segment, time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.segments[videoID]
	return e.segments, e.fetchedAt, ok, nil
}

func (m *Mock) SaveSegments(videoID string, segments []skip.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[videoID] = mockEntry{segments: segments, fetchedAt: time.Now()}
	return nil
}

func (m *Mock) DeleteOldSegments(maxAge time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for id, e := range m.segments {
		if e.fetchedAt.Before(cutoff) {
			delete(m.segments, id)
		}
	}
	return nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

// SetSegments stores segments as if fetched at fetchedAt.
func (m *Mock) SetSegments(videoID string, segments []skip.Segment, fetchedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[videoID] = mockEntry{segments: segments, fetchedAt: fetchedAt}
}

func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
