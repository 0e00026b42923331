package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ld100/peacedoon/internal/config"
	"github.com/ld100/peacedoon/internal/services"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(slug, articleID string) EpisodeRecord {
	return EpisodeRecord{
		Slug:          slug,
		ArticleID:     articleID,
		Title:         "Title of " + articleID,
		ContentHash:   "abc123",
		AudioURL:      "https://cdn.example.com/" + slug + "/" + articleID + ".mp3",
		FileSizeBytes: 4096,
		PublishedAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		RenderedAt:    time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
		RunID:         "run-1",
	}
}

func TestUpsertAndGetEpisode(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	record := sampleRecord("daily", "a1")
	if err := store.UpsertEpisode(ctx, record); err != nil {
		t.Fatalf("UpsertEpisode: %v", err)
	}

	got, err := store.GetEpisode(ctx, "daily", "a1")
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if got.ContentHash != "abc123" || got.AudioURL != record.AudioURL {
		t.Fatalf("record mismatch: %+v", got)
	}
	if !got.PublishedAt.Equal(record.PublishedAt) {
		t.Fatalf("publishedAt = %v", got.PublishedAt)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	record := sampleRecord("daily", "a1")
	if err := store.UpsertEpisode(ctx, record); err != nil {
		t.Fatalf("UpsertEpisode: %v", err)
	}
	record.ContentHash = "def456"
	record.RunID = "run-2"
	if err := store.UpsertEpisode(ctx, record); err != nil {
		t.Fatalf("UpsertEpisode replace: %v", err)
	}

	got, err := store.GetEpisode(ctx, "daily", "a1")
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if got.ContentHash != "def456" || got.RunID != "run-2" {
		t.Fatalf("update lost: %+v", got)
	}

	records, err := store.ListEpisodes(ctx, "daily")
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single row after upsert, got %d", len(records))
	}
}

func TestGetEpisodeNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.GetEpisode(context.Background(), "daily", "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListEpisodesScopedBySlug(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, pair := range [][2]string{{"daily", "a1"}, {"daily", "a2"}, {"weekly", "w1"}} {
		if err := store.UpsertEpisode(ctx, sampleRecord(pair[0], pair[1])); err != nil {
			t.Fatalf("UpsertEpisode: %v", err)
		}
	}

	records, err := store.ListEpisodes(ctx, "daily")
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 daily episodes, got %d", len(records))
	}
	for _, record := range records {
		if record.Slug != "daily" {
			t.Fatalf("foreign slug in listing: %+v", record)
		}
	}
}

func TestRecordAndLatestBuild(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := BuildRecord{
		RunID:        "run-1",
		Slug:         "daily",
		FeedURL:      "https://news.example.com/rss",
		Status:       BuildStatusFailed,
		EpisodeCount: 0,
		StartedAt:    time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2026, 2, 1, 6, 1, 0, 0, time.UTC),
	}
	second := first
	second.RunID = "run-2"
	second.Status = BuildStatusCompleted
	second.EpisodeCount = 5
	second.StartedAt = second.StartedAt.Add(time.Hour)
	second.FinishedAt = second.FinishedAt.Add(time.Hour)

	if err := store.RecordBuild(ctx, first); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if err := store.RecordBuild(ctx, second); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}

	latest, err := store.LatestBuild(ctx, "daily")
	if err != nil {
		t.Fatalf("LatestBuild: %v", err)
	}
	if latest.RunID != "run-2" || latest.Status != BuildStatusCompleted || latest.EpisodeCount != 5 {
		t.Fatalf("latest = %+v", latest)
	}

	if _, err := store.LatestBuild(ctx, "unknown"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown slug, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.UpsertEpisode(context.Background(), sampleRecord("daily", "a1")); err != nil {
		t.Fatalf("UpsertEpisode: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(&cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetEpisode(context.Background(), "daily", "a1"); err != nil {
		t.Fatalf("data lost across reopen: %v", err)
	}
}
