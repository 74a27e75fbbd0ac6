// Package state persists the lyrics cache and detection history in SQLite.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/chorus/internal/db"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lrclib"
	"github.com/llehouerou/chorus/internal/lyrics"
)

const (
	appName    = "chorus"
	dbFileName = "chorus.db"
)

// Manager owns the database handle.
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

var _ lyrics.Cache = (*Manager)(nil)

// Detection is one locked track from the history.
type Detection struct {
	Track    identify.Track
	LockedAt time.Time
}

// Open opens the database under $XDG_DATA_HOME/chorus.
func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the database at path. ":memory:" is accepted.
func OpenPath(path string) (*Manager, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writes.
	conn.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Manager{db: conn, now: time.Now}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// GetLyrics implements lyrics.Cache. Read errors count as a miss.
func (m *Manager) GetLyrics(key string) (*lrclib.LyricsResult, bool) {
	var (
		r      lrclib.LyricsResult
		plain  sql.NullString
		synced sql.NullString
	)
	err := m.db.QueryRow(`
		SELECT lrclib_id, track_name, artist_name, album_name, duration,
		       instrumental, plain_lyrics, synced_lyrics
		FROM lyrics_cache WHERE key = ?`, key).
		Scan(&r.ID, &r.TrackName, &r.ArtistName, &r.AlbumName, &r.Duration,
			&r.Instrumental, &plain, &synced)
	if err != nil {
		return nil, false
	}
	r.PlainLyrics = db.NullStringValue(plain)
	r.SyncedLyrics = db.NullStringValue(synced)
	return &r, true
}

// PutLyrics implements lyrics.Cache, replacing any previous entry.
func (m *Manager) PutLyrics(key string, r *lrclib.LyricsResult) error {
	if r == nil {
		return errors.New("nil lyrics result")
	}
	_, err := m.db.Exec(`
		INSERT OR REPLACE INTO lyrics_cache
			(key, lrclib_id, track_name, artist_name, album_name, duration,
			 instrumental, plain_lyrics, synced_lyrics, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, r.ID, r.TrackName, r.ArtistName, r.AlbumName, r.Duration,
		r.Instrumental, nullString(r.PlainLyrics), nullString(r.SyncedLyrics),
		m.now().Unix())
	return err
}

// RecordDetection appends a locked track to the history.
func (m *Manager) RecordDetection(ctx context.Context, track identify.Track, lockedAt time.Time) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO detections
			(name, artist, album, duration_ms, play_offset_ms, sample_duration_ms, score, locked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		track.Name, track.Artist, track.Album, track.DurationMs, track.PlayOffsetMs,
		track.SampleDurationMs, db.PtrNullInt64(track.Score), lockedAt.UnixMilli())
	return err
}

// RecentDetections returns up to limit detections, newest first.
func (m *Manager) RecentDetections(ctx context.Context, limit int) ([]Detection, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT name, artist, album, duration_ms, play_offset_ms, sample_duration_ms, score, locked_at
		FROM detections ORDER BY locked_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Detection
	for rows.Next() {
		var (
			d        Detection
			score    sql.NullInt64
			lockedAt int64
		)
		t := &d.Track
		if err := rows.Scan(&t.Name, &t.Artist, &t.Album, &t.DurationMs, &t.PlayOffsetMs,
			&t.SampleDurationMs, &score, &lockedAt); err != nil {
			return nil, err
		}
		t.Score = db.NullIntPtr(score)
		d.LockedAt = time.UnixMilli(lockedAt)
		result = append(result, d)
	}
	return result, rows.Err()
}

// PruneLyrics removes cache entries fetched before cutoff and returns how
// many were removed.
func (m *Manager) PruneLyrics(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM lyrics_cache WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
