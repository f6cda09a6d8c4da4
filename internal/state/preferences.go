package state

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/llehouerou/tubesync/internal/db"
	"github.com/llehouerou/tubesync/internal/playback"
)

// Preferences are the toggles the user flips from the player view.
type Preferences struct {
	SegmentSkip bool
	DeviceLink  bool
	Repeat      playback.RepeatMode
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{SegmentSkip: true}
}

func getPreferences(conn *sql.DB) (Preferences, error) {
	var prefs Preferences
	var repeat int

	err := conn.QueryRow(`
		SELECT segment_skip, device_link, repeat_mode FROM preferences WHERE id = 1
	`).Scan(&prefs.SegmentSkip, &prefs.DeviceLink, &repeat)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, err
	}

	prefs.Repeat = playback.RepeatMode(repeat)
	return prefs, nil
}

func savePreferences(conn *sql.DB, prefs Preferences) error {
	_, err := conn.Exec(`
		INSERT INTO preferences (id, segment_skip, device_link, repeat_mode)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			segment_skip = excluded.segment_skip,
			device_link = excluded.device_link,
			repeat_mode = excluded.repeat_mode
	`, prefs.SegmentSkip, prefs.DeviceLink, int(prefs.Repeat))
	return err
}

// ScreenID returns the identity of this player on the remote channel,
// generating and storing one on first use.
func (m *Manager) ScreenID() (string, error) {
	var screenID string
	err := db.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		var stored sql.Null[string]
		err := tx.QueryRow(`SELECT screen_id FROM preferences WHERE id = 1`).Scan(&stored)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if screenID = db.Value(stored); screenID != "" {
			return nil
		}

		defaults := DefaultPreferences()
		screenID = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO preferences (id, segment_skip, device_link, repeat_mode, screen_id)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET screen_id = excluded.screen_id
		`, defaults.SegmentSkip, defaults.DeviceLink, int(defaults.Repeat), screenID)
		return err
	})
	if err != nil {
		return "", err
	}
	return screenID, nil
}
