package builder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ld100/peacedoon/internal/audio"
	"github.com/ld100/peacedoon/internal/config"
	"github.com/ld100/peacedoon/internal/contentid"
	"github.com/ld100/peacedoon/internal/feed"
	"github.com/ld100/peacedoon/internal/library"
	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/podcast"
	"github.com/ld100/peacedoon/internal/services"
	"github.com/ld100/peacedoon/internal/ssml"
	"github.com/ld100/peacedoon/internal/storage"
	"github.com/ld100/peacedoon/internal/synthesis"
)

// FeedFetcher retrieves and normalizes a syndication feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Feed, error)
}

// Segmenter splits plain text into ordered sentences.
type Segmenter interface {
	Sentences(text string) ([]string, error)
}

// Assembler joins rendered chunks into one episode audio file.
type Assembler interface {
	Assemble(ctx context.Context, chunks []audio.Chunk, outputPath string) error
}

// Options wires the collaborators for a Builder. Uploader may be nil, in
// which case artifacts stay in the local output directory.
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	Fetcher     FeedFetcher
	Segmenter   Segmenter
	Synthesizer synthesis.Synthesizer
	Assembler   Assembler
	Uploader    storage.Uploader
	Store       *library.Store
}

// Builder runs the feed-to-podcast pipeline for one slug at a time.
type Builder struct {
	cfg         *config.Config
	logger      *slog.Logger
	fetcher     FeedFetcher
	segmenter   Segmenter
	synthesizer synthesis.Synthesizer
	assembler   Assembler
	uploader    storage.Uploader
	store       *library.Store
}

// New validates options and constructs a Builder.
func New(opts Options) (*Builder, error) {
	if opts.Config == nil {
		return nil, services.Wrap(services.ErrConfiguration, "builder", "new", "config is required", nil)
	}
	if opts.Fetcher == nil || opts.Segmenter == nil || opts.Synthesizer == nil || opts.Assembler == nil || opts.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "builder", "new", "missing collaborator", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		cfg:         opts.Config,
		logger:      logging.NewComponentLogger(logger, "builder"),
		fetcher:     opts.Fetcher,
		segmenter:   opts.Segmenter,
		synthesizer: opts.Synthesizer,
		assembler:   opts.Assembler,
		uploader:    opts.Uploader,
		store:       opts.Store,
	}, nil
}

// Result summarizes one completed build run.
type Result struct {
	RunID    string
	Slug     string
	FeedPath string
	FeedURL  string
	Episodes int
	Reused   int
	Skipped  int
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Run builds the podcast for one feed. Articles whose content hash matches
// the library record are reused without re-rendering. With
// skip_failed_articles enabled, per-article failures are logged and the
// rest of the feed proceeds; configuration and validation failures always
// abort.
func (b *Builder) Run(ctx context.Context, feedURL, slug string) (*Result, error) {
	slug = strings.TrimSpace(slug)
	if !slugPattern.MatchString(slug) {
		return nil, services.Wrap(services.ErrValidation, "builder", "run",
			fmt.Sprintf("invalid slug %q: use lowercase letters, digits, and hyphens", slug), nil)
	}
	if strings.TrimSpace(feedURL) == "" {
		return nil, services.Wrap(services.ErrValidation, "builder", "run", "feed url is required", nil)
	}
	if err := b.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "builder", "run", "ensure directories", err)
	}

	lock := flock.New(filepath.Join(b.cfg.Paths.WorkDir, slug+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "builder", "lock", slug, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "builder", "lock",
			fmt.Sprintf("another build for %q is already running", slug), nil)
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ctx = services.WithRunID(services.WithSlug(ctx, slug), runID)
	logger := b.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldSlug, slug),
	)
	startedAt := time.Now().UTC()

	scratchDir := filepath.Join(b.cfg.ScratchDir(), runID)
	outputDir := filepath.Join(b.cfg.Paths.WorkDir, "output", slug)
	for _, dir := range []string{scratchDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "builder", "run", "create directory", err)
		}
	}

	result, err := b.run(ctx, logger, feedURL, slug, runID, scratchDir, outputDir)

	status := library.BuildStatusCompleted
	episodes := 0
	if result != nil {
		episodes = result.Episodes
	}
	if err != nil {
		status = library.BuildStatusFailed
	}
	record := library.BuildRecord{
		RunID:        runID,
		Slug:         slug,
		FeedURL:      feedURL,
		Status:       status,
		EpisodeCount: episodes,
		StartedAt:    startedAt,
		FinishedAt:   time.Now().UTC(),
	}
	if recordErr := b.store.RecordBuild(ctx, record); recordErr != nil {
		logger.Warn("failed to record build history", logging.Error(recordErr))
	}

	if err != nil {
		return nil, err
	}

	if removeErr := os.RemoveAll(scratchDir); removeErr != nil {
		logger.Warn("failed to remove run scratch directory",
			logging.String("path", scratchDir),
			logging.Error(removeErr),
		)
	}

	logger.Info("build completed",
		logging.Int("episodes", result.Episodes),
		logging.Int("reused", result.Reused),
		logging.Int("skipped", result.Skipped),
		logging.Duration("elapsed", time.Since(startedAt)),
		logging.String(logging.FieldEventType, "build_completed"),
	)
	return result, nil
}

func (b *Builder) run(ctx context.Context, logger *slog.Logger, feedURL, slug, runID, scratchDir, outputDir string) (*Result, error) {
	source, err := b.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	logger.Info("feed fetched",
		logging.String("title", source.Title),
		logging.Int("articles", len(source.Articles)),
	)

	if b.uploader != nil {
		if err := b.uploader.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}

	composer := podcast.NewComposer(b.channel(slug, source), b.cfg.Storage.PublicURLPrefix)
	if err := composer.Build(); err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Slug: slug}
	for _, article := range source.Articles {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		built, err := b.buildArticle(ctx, logger, article, slug, scratchDir, outputDir)
		if err != nil {
			if b.cfg.Workflow.SkipFailedArticles && services.SkipEligible(err) {
				result.Skipped++
				logger.Warn("skipping failed article",
					logging.String(logging.FieldArticleID, article.ID),
					logging.Error(err),
					logging.String(logging.FieldEventType, "article_skipped"),
				)
				continue
			}
			return result, err
		}

		composer.AppendEpisode(built.episode)
		result.Episodes++
		if built.reused {
			result.Reused++
			continue
		}

		audioURL := composer.EnclosureURL(built.episode)
		if b.uploader != nil {
			audioURL, err = b.uploadFile(ctx, built.episode.AudioPath, slug, "audio/mpeg")
			if err != nil {
				return result, err
			}
		}
		if err := b.store.UpsertEpisode(ctx, library.EpisodeRecord{
			Slug:          slug,
			ArticleID:     built.episode.ID,
			Title:         built.episode.Title,
			ContentHash:   built.hash,
			AudioURL:      audioURL,
			FileSizeBytes: built.episode.FileSizeBytes,
			PublishedAt:   built.episode.PublishedAt,
			RenderedAt:    time.Now().UTC(),
			RunID:         runID,
		}); err != nil {
			return result, err
		}
	}

	body, err := composer.Serialize()
	if err != nil {
		return result, err
	}
	result.FeedPath = filepath.Join(outputDir, slug+".xml")
	if err := os.WriteFile(result.FeedPath, body, 0o644); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "builder", "write_feed", result.FeedPath, err)
	}
	if b.uploader != nil {
		result.FeedURL, err = b.uploadFile(ctx, result.FeedPath, slug, "application/rss+xml")
		if err != nil {
			return result, err
		}
		// Everything published; the staged copies have served their purpose.
		if err := os.RemoveAll(outputDir); err != nil {
			logger.Warn("failed to remove staged artifacts",
				logging.String("path", outputDir),
				logging.Error(err),
			)
		} else {
			result.FeedPath = ""
		}
	}
	return result, nil
}

type builtEpisode struct {
	episode podcast.Episode
	hash    string
	reused  bool
}

func (b *Builder) buildArticle(ctx context.Context, logger *slog.Logger, article feed.Article, slug, scratchDir, outputDir string) (builtEpisode, error) {
	ctx = services.WithArticleID(ctx, article.ID)
	// The artifact name is the content fingerprint: re-rendering identical
	// text overwrites the same object instead of duplicating it.
	hash := contentid.Fingerprint(article.Title + "\n" + article.BodyText)
	basename := hash + "." + b.cfg.Synthesis.Format

	if record, err := b.store.GetEpisode(ctx, slug, article.ID); err == nil && record.ContentHash == hash {
		logger.Info("article unchanged, reusing published audio",
			logging.String(logging.FieldArticleID, article.ID),
			logging.String(logging.FieldEventType, "article_reused"),
		)
		return builtEpisode{
			episode: podcast.Episode{
				ID:            article.ID,
				Title:         article.Title,
				Description:   article.BodyText,
				Author:        article.Author,
				PublishedAt:   record.PublishedAt,
				AudioPath:     basename,
				FileSizeBytes: record.FileSizeBytes,
			},
			hash:   hash,
			reused: true,
		}, nil
	}

	sentences, err := b.segmenter.Sentences(article.BodyText)
	if err != nil {
		return builtEpisode{}, services.Wrap(services.ErrExternalTool, "builder", "segment", article.ID, err)
	}
	documents := ssml.PackArticle(article.Title, sentences, b.cfg.Synthesis.MaxChunkChars)

	stem := strings.TrimSuffix(basename, filepath.Ext(basename))
	chunks := make([]audio.Chunk, 0, len(documents))
	for i, document := range documents {
		if err := ctx.Err(); err != nil {
			return builtEpisode{}, err
		}
		rendered, err := b.synthesizer.Synthesize(ctx, synthesis.Request{
			Text:     document,
			Voice:    b.cfg.Synthesis.Voice,
			Language: b.cfg.Synthesis.Language,
			Format:   b.cfg.Synthesis.Format,
		})
		if err != nil {
			return builtEpisode{}, err
		}
		chunkPath := filepath.Join(scratchDir, fmt.Sprintf("%s.%03d.%s", stem, i, b.cfg.Synthesis.Format))
		if err := os.WriteFile(chunkPath, rendered, 0o644); err != nil {
			return builtEpisode{}, services.Wrap(services.ErrConfiguration, "builder", "write_chunk", chunkPath, err)
		}
		chunks = append(chunks, audio.Chunk{Index: i, Path: chunkPath})
	}

	outputPath := filepath.Join(outputDir, basename)
	if err := b.assembler.Assemble(ctx, chunks, outputPath); err != nil {
		return builtEpisode{}, err
	}

	episode, err := podcast.NewEpisode(article, outputPath)
	if err != nil {
		return builtEpisode{}, err
	}
	logger.Info("article rendered",
		logging.String(logging.FieldArticleID, article.ID),
		logging.Int("chunks", len(chunks)),
		logging.Int64("bytes", episode.FileSizeBytes),
		logging.String(logging.FieldEventType, "article_rendered"),
	)
	return builtEpisode{episode: episode, hash: hash}, nil
}

func (b *Builder) uploadFile(ctx context.Context, localPath, slug, contentType string) (string, error) {
	body, err := os.ReadFile(localPath)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "builder", "upload", localPath, err)
	}
	remotePath := slug + "/" + filepath.Base(localPath)
	return b.uploader.Upload(ctx, remotePath, bytes.NewReader(body), contentType)
}

// channel derives the feed-level metadata from the source feed, letting
// configured overrides win where set.
func (b *Builder) channel(slug string, source *feed.Feed) podcast.Channel {
	author := b.cfg.Podcast.Author
	if author == "" {
		author = source.Author
	}
	language := b.cfg.Podcast.Language
	if language == "" {
		language = source.Language
	}
	logo := b.cfg.Podcast.LogoURL
	if logo == "" {
		logo = source.ImageURL
	}
	return podcast.Channel{
		Slug:        slug,
		Title:       source.Title,
		Link:        source.Link,
		Description: source.Description,
		Author:      author,
		Email:       b.cfg.Podcast.Email,
		Subtitle:    b.cfg.Podcast.Subtitle,
		Language:    language,
		LogoURL:     logo,
		Categories:  b.cfg.Podcast.Categories,
	}
}
