package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ld100/peacedoon/internal/audio"
	"github.com/ld100/peacedoon/internal/builder"
	"github.com/ld100/peacedoon/internal/config"
	"github.com/ld100/peacedoon/internal/deps"
	"github.com/ld100/peacedoon/internal/feed"
	"github.com/ld100/peacedoon/internal/library"
	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/storage"
	"github.com/ld100/peacedoon/internal/synthesis"
	"github.com/ld100/peacedoon/internal/textseg"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var feedURL string
	var slug string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch a feed, synthesize its articles, and publish the podcast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cfg)
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s (run 'peacedoon deps')", strings.Join(missing, ", "))
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := newBuilder(cfg, logger, store)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, err := b.Run(runCtx, feedURL, slug)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build %s completed: %d episodes (%d reused, %d skipped)\n",
				result.RunID, result.Episodes, result.Reused, result.Skipped)
			if result.FeedPath != "" {
				fmt.Fprintf(out, "Feed document: %s\n", result.FeedPath)
			}
			if result.FeedURL != "" {
				fmt.Fprintf(out, "Published at:  %s\n", result.FeedURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedURL, "feed", "f", "", "Source feed URL (required)")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "Podcast slug (required)")
	_ = cmd.MarkFlagRequired("feed")
	_ = cmd.MarkFlagRequired("slug")

	return cmd
}

func newBuilder(cfg *config.Config, logger *slog.Logger, store *library.Store) (*builder.Builder, error) {
	opts := builder.Options{
		Config:    cfg,
		Logger:    logger,
		Fetcher:   feed.NewFetcher(time.Duration(cfg.Workflow.FeedRequestTimeout)*time.Second, logger),
		Segmenter: textseg.NewSegmenter(),
		Synthesizer: synthesis.NewHTTPEngine(synthesis.HTTPEngineConfig{
			Endpoint: cfg.Synthesis.Endpoint,
			APIKey:   cfg.Synthesis.APIKey,
			Timeout:  time.Duration(cfg.Synthesis.RequestTimeout) * time.Second,
		}),
		Assembler: audio.NewAssembler(audio.AssemblerConfig{
			FFmpegBinary:  cfg.FFmpegBinary(),
			MusicPath:     cfg.Audio.MusicPath,
			AttenuationDb: cfg.Audio.MusicAttenuationDb,
		}, logger),
		Store: store,
	}
	if cfg.UploadEnabled() {
		opts.Uploader = storage.NewSupabaseUploader(storage.SupabaseConfig{
			URL:             cfg.Storage.URL,
			APIKey:          cfg.Storage.APIKey,
			Bucket:          cfg.Storage.Bucket,
			PublicURLPrefix: cfg.Storage.PublicURLPrefix,
		}, logger)
	}
	return builder.New(opts)
}
