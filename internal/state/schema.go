package state

import (
	"context"
	"database/sql"

	"github.com/llehouerou/tubesync/internal/db"
)

const currentSchemaVersion = 1

func initSchema(conn *sql.DB) error {
	return db.WithTx(context.Background(), conn, createTables)
}

func createTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			segment_skip INTEGER NOT NULL DEFAULT 1,
			device_link INTEGER NOT NULL DEFAULT 0,
			repeat_mode INTEGER NOT NULL DEFAULT 0,
			screen_id TEXT
		);

		CREATE TABLE IF NOT EXISTS segment_cache (
			video_id TEXT PRIMARY KEY,
			segments TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_segment_cache_fetched_at ON segment_cache(fetched_at);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = tx.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
