// Package sqlite serves the fallback track catalog from SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

// Catalog implements ports.Catalog. With the default ":memory:" path it holds
// only the built-in samples; a file path lets operators ship a larger catalog.
type Catalog struct {
	db *sql.DB
}

var _ ports.Catalog = (*Catalog)(nil)

// NewCatalog opens the database, migrates it and seeds the samples when empty.
func NewCatalog(ctx context.Context, storagePath string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// every :memory: connection is a separate database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_tracks").Scan(&count); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to count catalog: %w", err)
	}
	if count == 0 {
		if err := c.Seed(ctx, domain.SampleTracks()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return c, nil
}

// Close ensures the DB connection is closed gracefully
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Search returns tracks whose title or artist contains query, ignoring case.
// Folding happens in Go: SQLite's lower() only maps ASCII letters.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.Track, error) {
	pattern := "%" + escapeLike(fold(strings.TrimSpace(query))) + "%"
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, artist, bpm, musical_key, duration_s, IFNULL(video_id, '')
		FROM catalog_tracks
		WHERE title_folded LIKE ? ESCAPE '\' OR artist_folded LIKE ? ESCAPE '\'
		ORDER BY position ASC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	return scanTracks(rows)
}

// All returns the whole catalog in seed order.
func (c *Catalog) All(ctx context.Context) ([]domain.Track, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, artist, bpm, musical_key, duration_s, IFNULL(video_id, '')
		FROM catalog_tracks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return scanTracks(rows)
}

// Seed upserts tracks, keeping their slice order for listing.
func (c *Catalog) Seed(ctx context.Context, tracks []domain.Track) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var offset int
	if err := tx.QueryRowContext(ctx, "SELECT IFNULL(MAX(position), 0) FROM catalog_tracks").Scan(&offset); err != nil {
		return fmt.Errorf("failed to read catalog position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_tracks (id, title, artist, bpm, musical_key, duration_s, video_id, position, title_folded, artist_folded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			artist=excluded.artist,
			title_folded=excluded.title_folded,
			artist_folded=excluded.artist_folded,
			bpm=excluded.bpm,
			musical_key=excluded.musical_key,
			duration_s=excluded.duration_s,
			video_id=excluded.video_id;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed: %w", err)
	}
	defer stmt.Close()

	for i, t := range tracks {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, t.Artist, t.BPM, t.Key, t.Duration, t.VideoID, offset+i+1, fold(t.Title), fold(t.Artist)); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func scanTracks(rows *sql.Rows) ([]domain.Track, error) {
	defer rows.Close()

	tracks := []domain.Track{}
	for rows.Next() {
		var t domain.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.BPM, &t.Key, &t.Duration, &t.VideoID); err != nil {
			return nil, fmt.Errorf("failed to scan catalog track: %w", err)
		}
		t.Source = domain.SourceFallback
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}
	return tracks, nil
}

func (c *Catalog) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		bpm INTEGER NOT NULL DEFAULT 0,
		musical_key TEXT NOT NULL DEFAULT 'Unknown',
		duration_s INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return err
	}

	// catalogs built by earlier versions lack these columns
	for _, column := range []string{"video_id TEXT", "title_folded TEXT", "artist_folded TEXT"} {
		if _, err := c.db.ExecContext(ctx, "ALTER TABLE catalog_tracks ADD COLUMN "+column); err != nil {
			if !isDuplicateColumnError(err) {
				return err
			}
		}
	}

	return c.backfillFolded(ctx)
}

// backfillFolded fills the search columns of rows written before they existed.
func (c *Catalog) backfillFolded(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, artist FROM catalog_tracks
		WHERE title_folded IS NULL OR artist_folded IS NULL
	`)
	if err != nil {
		return err
	}
	var pending [][3]string
	for rows.Next() {
		var row [3]string
		if err := rows.Scan(&row[0], &row[1], &row[2]); err != nil {
			rows.Close()
			return err
		}
		pending = append(pending, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, row := range pending {
		if _, err := c.db.ExecContext(ctx,
			"UPDATE catalog_tracks SET title_folded = ?, artist_folded = ? WHERE id = ?",
			fold(row[1]), fold(row[2]), row[0],
		); err != nil {
			return err
		}
	}
	return nil
}

// fold maps s to the form stored in the *_folded columns.
func fold(s string) string {
	return strings.ToLower(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
