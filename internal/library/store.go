package library

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ld100/peacedoon/internal/config"
	"github.com/ld100/peacedoon/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change. A mismatched database must
// be deleted; the library is a cache of published state and rebuilds on the
// next run.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// release.
var ErrSchemaMismatch = errors.New("library schema version mismatch")

// EpisodeRecord is the ledger entry for one published episode.
type EpisodeRecord struct {
	Slug          string
	ArticleID     string
	Title         string
	ContentHash   string
	AudioURL      string
	FileSizeBytes int64
	PublishedAt   time.Time
	RenderedAt    time.Time
	RunID         string
}

// BuildRecord summarizes one build run over a feed.
type BuildRecord struct {
	RunID        string
	Slug         string
	FeedURL      string
	Status       string
	EpisodeCount int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Build statuses.
const (
	BuildStatusCompleted = "completed"
	BuildStatusFailed    = "failed"
)

// Store persists episode and build history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the library database under the work directory,
// creating it on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.WorkDir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// UpsertEpisode records a rendered episode, replacing any earlier render
// of the same article.
func (s *Store) UpsertEpisode(ctx context.Context, record EpisodeRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (
            slug, article_id, title, content_hash, audio_url,
            file_size_bytes, published_at, rendered_at, run_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (slug, article_id) DO UPDATE SET
            title = excluded.title,
            content_hash = excluded.content_hash,
            audio_url = excluded.audio_url,
            file_size_bytes = excluded.file_size_bytes,
            published_at = excluded.published_at,
            rendered_at = excluded.rendered_at,
            run_id = excluded.run_id`,
		record.Slug,
		record.ArticleID,
		record.Title,
		record.ContentHash,
		record.AudioURL,
		record.FileSizeBytes,
		record.PublishedAt.UTC().Format(time.RFC3339Nano),
		record.RenderedAt.UTC().Format(time.RFC3339Nano),
		record.RunID,
	)
	if err != nil {
		return fmt.Errorf("upsert episode: %w", err)
	}
	return nil
}

// GetEpisode looks up the ledger entry for one article of a feed.
func (s *Store) GetEpisode(ctx context.Context, slug, articleID string) (*EpisodeRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT slug, article_id, title, content_hash, audio_url,
                file_size_bytes, published_at, rendered_at, run_id
           FROM episodes WHERE slug = ? AND article_id = ?`,
		slug, articleID,
	)
	record, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "library", "get_episode", articleID, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return record, nil
}

// ListEpisodes returns every recorded episode for a feed, most recently
// rendered first.
func (s *Store) ListEpisodes(ctx context.Context, slug string) ([]EpisodeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, article_id, title, content_hash, audio_url,
                file_size_bytes, published_at, rendered_at, run_id
           FROM episodes WHERE slug = ? ORDER BY rendered_at DESC`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		record, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// RecordBuild appends one build run to the history.
func (s *Store) RecordBuild(ctx context.Context, record BuildRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (run_id, slug, feed_url, status, episode_count, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.Slug,
		record.FeedURL,
		record.Status,
		record.EpisodeCount,
		record.StartedAt.UTC().Format(time.RFC3339Nano),
		record.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// LatestBuild returns the most recent build run for a feed.
func (s *Store) LatestBuild(ctx context.Context, slug string) (*BuildRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, slug, feed_url, status, episode_count, started_at, finished_at
           FROM builds WHERE slug = ? ORDER BY started_at DESC LIMIT 1`,
		slug,
	)
	var record BuildRecord
	var startedAt, finishedAt string
	err := row.Scan(&record.RunID, &record.Slug, &record.FeedURL, &record.Status,
		&record.EpisodeCount, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "library", "latest_build", slug, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("latest build: %w", err)
	}
	if record.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return nil, err
	}
	if record.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
		return nil, err
	}
	return &record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*EpisodeRecord, error) {
	var record EpisodeRecord
	var publishedAt, renderedAt string
	err := row.Scan(&record.Slug, &record.ArticleID, &record.Title, &record.ContentHash,
		&record.AudioURL, &record.FileSizeBytes, &publishedAt, &renderedAt, &record.RunID)
	if err != nil {
		return nil, err
	}
	if record.PublishedAt, err = parseTimestamp(publishedAt); err != nil {
		return nil, err
	}
	if record.RenderedAt, err = parseTimestamp(renderedAt); err != nil {
		return nil, err
	}
	return &record, nil
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}
