package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/skip"
)

func openMemory(t *testing.T) *Manager {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, initSchema(conn))
	m := newManager(conn)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPreferences_DefaultsOnEmptyDB(t *testing.T) {
	m := openMemory(t)

	prefs, err := getPreferences(m.db)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPreferences_Upsert(t *testing.T) {
	m := openMemory(t)

	want := Preferences{SegmentSkip: false, DeviceLink: true, Repeat: playback.RepeatPause}
	require.NoError(t, savePreferences(m.db, want))
	got, err := getPreferences(m.db)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Repeat = playback.RepeatOne
	require.NoError(t, savePreferences(m.db, want))
	got, err = getPreferences(m.db)
	require.NoError(t, err)
	assert.Equal(t, playback.RepeatOne, got.Repeat)
}

func TestManager_PendingPreferencesSurviveClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tubesync.db")
	m, err := OpenPath(path)
	require.NoError(t, err)

	want := Preferences{SegmentSkip: true, DeviceLink: true, Repeat: playback.RepeatAll}
	m.SavePreferences(DefaultPreferences())
	m.SavePreferences(want)

	got, err := m.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, want, got, "pending value is visible before the write")
	require.NoError(t, m.Close())

	m, err = OpenPath(path)
	require.NoError(t, err)
	defer m.Close()
	got, err = m.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManager_ScreenIDIsStable(t *testing.T) {
	m := openMemory(t)

	first, err := m.ScreenID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := m.ScreenID()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	prefs, err := getPreferences(m.db)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs, "generating the id keeps default preferences")
}

func TestManager_SegmentsCache(t *testing.T) {
	m := openMemory(t)

	_, _, ok, err := m.GetSegments("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []skip.Segment{
		{Start: 1500 * time.Millisecond, End: 3 * time.Second, Category: "sponsor", UUID: "u1"},
		{Start: 10 * time.Second, End: 20 * time.Second, Category: "selfpromo", UUID: "u2"},
	}
	require.NoError(t, m.SaveSegments("dQw4w9WgXcQ", want))

	got, fetchedAt, ok, err := m.GetSegments("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.WithinDuration(t, time.Now(), fetchedAt, time.Minute)
}

func TestManager_EmptySegmentListIsCached(t *testing.T) {
	m := openMemory(t)
	require.NoError(t, m.SaveSegments("jNQXAC9IVRw", nil))

	got, _, ok, err := m.GetSegments("jNQXAC9IVRw")
	require.NoError(t, err)
	assert.True(t, ok, "an empty list is a hit")
	assert.Empty(t, got)
}

func TestManager_DeleteOldSegments(t *testing.T) {
	m := openMemory(t)
	require.NoError(t, m.SaveSegments("fresh", nil))
	_, err := m.db.Exec(`INSERT INTO segment_cache (video_id, segments, fetched_at) VALUES ('stale', '[]', ?)`,
		time.Now().Add(-48*time.Hour).Unix())
	require.NoError(t, err)

	require.NoError(t, m.DeleteOldSegments(24*time.Hour))

	_, _, ok, _ := m.GetSegments("stale")
	assert.False(t, ok)
	_, _, ok, _ = m.GetSegments("fresh")
	assert.True(t, ok)
}
