package logging

import (
	"context"
	"log/slog"

	"github.com/ld100/peacedoon/internal/services"
)

// WithContext returns a logger enriched with the run, slug, and article
// identifiers recorded on ctx. Components deep in the pipeline use it so
// their records correlate with the orchestrator's without threading the
// identifiers explicitly.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id, ok := services.RunIDFromContext(ctx); ok {
		logger = logger.With(String(FieldRunID, id))
	}
	if slug, ok := services.SlugFromContext(ctx); ok {
		logger = logger.With(String(FieldSlug, slug))
	}
	if id, ok := services.ArticleIDFromContext(ctx); ok {
		logger = logger.With(String(FieldArticleID, id))
	}
	return logger
}
