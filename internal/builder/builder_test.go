package builder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ld100/peacedoon/internal/audio"
	"github.com/ld100/peacedoon/internal/config"
	"github.com/ld100/peacedoon/internal/contentid"
	"github.com/ld100/peacedoon/internal/feed"
	"github.com/ld100/peacedoon/internal/library"
	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/services"
	"github.com/ld100/peacedoon/internal/storage"
	"github.com/ld100/peacedoon/internal/synthesis"
)

type fakeFetcher struct {
	feed *feed.Feed
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*feed.Feed, error) {
	return f.feed, f.err
}

type fakeSegmenter struct{}

func (fakeSegmenter) Sentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []string{text}, nil
}

type fakeAssembler struct {
	calls int
}

func (f *fakeAssembler) Assemble(_ context.Context, chunks []audio.Chunk, outputPath string) error {
	f.calls++
	var buf bytes.Buffer
	for _, chunk := range chunks {
		body, err := os.ReadFile(chunk.Path)
		if err != nil {
			return err
		}
		buf.Write(body)
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

// poisonEngine fails any request whose text mentions the marker.
type poisonEngine struct {
	inner  *synthesis.MockEngine
	marker string
}

func (p *poisonEngine) Synthesize(ctx context.Context, req synthesis.Request) ([]byte, error) {
	if strings.Contains(req.Text, p.marker) {
		return nil, services.Wrap(services.ErrTransient, "synthesis", "request", "engine overloaded", nil)
	}
	return p.inner.Synthesize(ctx, req)
}

func testFeed() *feed.Feed {
	published := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	return &feed.Feed{
		Title:       "Example Journal",
		Link:        "https://journal.example.com",
		Description: "Daily notes",
		Language:    "en",
		Articles: []feed.Article{
			{ID: "a1", Title: "First Post", Link: "https://journal.example.com/1", BodyText: "Body one.", PublishedAt: &published},
			{ID: "a2", Title: "Second Post", Link: "https://journal.example.com/2", BodyText: "Body two."},
		},
	}
}

type fixture struct {
	builder  *Builder
	cfg      *config.Config
	store    *library.Store
	engine   *synthesis.MockEngine
	uploader *storage.MockUploader
}

func newFixture(t *testing.T, mutate func(*Options, *config.Config)) *fixture {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := library.Open(&cfg)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	engine := synthesis.NewMockEngine([]byte("AUDIO"))
	uploader := storage.NewMockUploader("https://cdn.example.com")
	opts := Options{
		Config:      &cfg,
		Logger:      logging.NewNop(),
		Fetcher:     &fakeFetcher{feed: testFeed()},
		Segmenter:   fakeSegmenter{},
		Synthesizer: engine,
		Assembler:   &fakeAssembler{},
		Uploader:    uploader,
		Store:       store,
	}
	if mutate != nil {
		mutate(&opts, &cfg)
	}

	b, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{builder: b, cfg: &cfg, store: store, engine: engine, uploader: uploader}
}

func TestRunPublishesEpisodes(t *testing.T) {
	fx := newFixture(t, nil)
	result, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Episodes != 2 || result.Reused != 0 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	paths := fx.uploader.Paths()
	var audioUploads, feedUploads int
	for _, path := range paths {
		switch {
		case strings.HasSuffix(path, ".xml"):
			feedUploads++
		default:
			audioUploads++
		}
		if !strings.HasPrefix(path, "daily/") {
			t.Fatalf("upload outside slug prefix: %q", path)
		}
	}
	if audioUploads != 2 || feedUploads != 1 {
		t.Fatalf("uploads = %v", paths)
	}

	body, contentType, ok := fx.uploader.Object("daily/daily.xml")
	if !ok {
		t.Fatalf("feed document not uploaded: %v", paths)
	}
	if contentType != "application/rss+xml" {
		t.Fatalf("feed content type = %q", contentType)
	}
	if !strings.Contains(string(body), "First Post") || !strings.Contains(string(body), "Second Post") {
		t.Fatal("episodes missing from feed document")
	}

	records, err := fx.store.ListEpisodes(context.Background(), "daily")
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ledger rows = %d", len(records))
	}

	build, err := fx.store.LatestBuild(context.Background(), "daily")
	if err != nil {
		t.Fatalf("LatestBuild: %v", err)
	}
	if build.Status != library.BuildStatusCompleted || build.EpisodeCount != 2 {
		t.Fatalf("build record = %+v", build)
	}

	entries, err := os.ReadDir(fx.cfg.ScratchDir())
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("run scratch not cleaned: %v", entries)
	}

	if result.FeedPath != "" {
		t.Fatalf("staged artifacts should be removed after publishing, FeedPath = %q", result.FeedPath)
	}
	outputDir := filepath.Join(fx.cfg.Paths.WorkDir, "output", "daily")
	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Fatal("staged output directory should be removed after upload")
	}
}

func TestEpisodeArtifactNamedByContentFingerprint(t *testing.T) {
	fx := newFixture(t, nil)
	if _, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	article := testFeed().Articles[0]
	want := "daily/" + contentid.Fingerprint(article.Title+"\n"+article.BodyText) + ".mp3"
	if _, _, ok := fx.uploader.Object(want); !ok {
		t.Fatalf("expected artifact at %s, got %v", want, fx.uploader.Paths())
	}
}

func TestRunReusesUnchangedArticles(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	if _, err := fx.builder.Run(ctx, "https://journal.example.com/rss", "daily"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	callsAfterFirst := len(fx.engine.Requests())
	if callsAfterFirst == 0 {
		t.Fatal("first run should synthesize")
	}

	result, err := fx.builder.Run(ctx, "https://journal.example.com/rss", "daily")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Reused != 2 || result.Episodes != 2 {
		t.Fatalf("result = %+v", result)
	}
	if calls := len(fx.engine.Requests()); calls != callsAfterFirst {
		t.Fatalf("unchanged articles re-synthesized: %d -> %d", callsAfterFirst, calls)
	}
}

func TestRunRerendersChangedArticle(t *testing.T) {
	source := testFeed()
	fx := newFixture(t, func(opts *Options, _ *config.Config) {
		opts.Fetcher = &fakeFetcher{feed: source}
	})
	ctx := context.Background()

	if _, err := fx.builder.Run(ctx, "https://journal.example.com/rss", "daily"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	callsAfterFirst := len(fx.engine.Requests())

	source.Articles[0].BodyText = "Body one, revised."
	result, err := fx.builder.Run(ctx, "https://journal.example.com/rss", "daily")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Reused != 1 {
		t.Fatalf("expected one reused episode, got %+v", result)
	}
	if calls := len(fx.engine.Requests()); calls <= callsAfterFirst {
		t.Fatal("changed article was not re-synthesized")
	}
}

func TestRunSkipsFailedArticles(t *testing.T) {
	fx := newFixture(t, func(opts *Options, cfg *config.Config) {
		cfg.Workflow.SkipFailedArticles = true
		opts.Synthesizer = &poisonEngine{inner: synthesis.NewMockEngine([]byte("AUDIO")), marker: "Body two"}
	})

	result, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Episodes != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
	if _, _, ok := fx.uploader.Object("daily/daily.xml"); !ok {
		t.Fatal("feed document should still publish")
	}
}

func TestRunAbortsOnFailureWithoutSkipPolicy(t *testing.T) {
	fx := newFixture(t, func(opts *Options, _ *config.Config) {
		opts.Synthesizer = &poisonEngine{inner: synthesis.NewMockEngine([]byte("AUDIO")), marker: "Body two"}
	})

	_, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected the synthesis failure to abort, got %v", err)
	}

	build, buildErr := fx.store.LatestBuild(context.Background(), "daily")
	if buildErr != nil {
		t.Fatalf("LatestBuild: %v", buildErr)
	}
	if build.Status != library.BuildStatusFailed {
		t.Fatalf("build status = %q", build.Status)
	}
}

func TestRunRejectsInvalidSlug(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "Bad Slug!")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunRejectsChannelWithoutTitle(t *testing.T) {
	broken := testFeed()
	broken.Title = ""
	fx := newFixture(t, func(opts *Options, _ *config.Config) {
		opts.Fetcher = &fakeFetcher{feed: broken}
	})
	_, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunWithoutUploaderKeepsLocalArtifacts(t *testing.T) {
	fx := newFixture(t, func(opts *Options, _ *config.Config) {
		opts.Uploader = nil
	})

	result, err := fx.builder.Run(context.Background(), "https://journal.example.com/rss", "daily")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FeedURL != "" {
		t.Fatalf("no uploader but feed URL %q", result.FeedURL)
	}
	body, err := os.ReadFile(result.FeedPath)
	if err != nil {
		t.Fatalf("read local feed: %v", err)
	}
	if !strings.Contains(string(body), "<rss") {
		t.Fatal("local feed document malformed")
	}
	if strings.Contains(string(body), `url="/`) {
		t.Fatal("local enclosures must not be rootless absolute URLs")
	}

	outputDir := filepath.Join(fx.cfg.Paths.WorkDir, "output", "daily")
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	var mp3s int
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".mp3") {
			mp3s++
		}
	}
	if mp3s != 2 {
		t.Fatalf("expected 2 local episode files, got %d", mp3s)
	}
}

func TestRunCancelledContext(t *testing.T) {
	fx := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fx.builder.Run(ctx, "https://journal.example.com/rss", "daily"); err == nil {
		t.Fatal("expected cancellation to surface")
	}
}
