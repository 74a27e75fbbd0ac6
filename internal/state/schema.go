package state

import (
	"context"
	"database/sql"

	"github.com/llehouerou/chorus/internal/db"
)

const currentSchemaVersion = 1

func initSchema(ctx context.Context, conn *sql.DB) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS lyrics_cache (
				key TEXT PRIMARY KEY,
				lrclib_id INTEGER NOT NULL,
				track_name TEXT NOT NULL,
				artist_name TEXT NOT NULL,
				album_name TEXT NOT NULL,
				duration REAL NOT NULL,
				instrumental INTEGER NOT NULL DEFAULT 0,
				plain_lyrics TEXT,
				synced_lyrics TEXT,
				fetched_at INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS detections (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				artist TEXT NOT NULL,
				album TEXT NOT NULL,
				duration_ms INTEGER NOT NULL,
				play_offset_ms INTEGER NOT NULL,
				sample_duration_ms INTEGER NOT NULL,
				score INTEGER,
				locked_at INTEGER NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_detections_locked_at ON detections(locked_at);
		`)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
		return err
	})
}
