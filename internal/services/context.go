package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	slugKey      contextKey = "slug"
	articleIDKey contextKey = "article_id"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pipeline run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSlug annotates context with the podcast slug being built.
func WithSlug(ctx context.Context, slug string) context.Context {
	if slug == "" {
		return ctx
	}
	return context.WithValue(ctx, slugKey, slug)
}

// SlugFromContext returns the podcast slug if present.
func SlugFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(slugKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithArticleID annotates context with the article currently in flight.
func WithArticleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, articleIDKey, id)
}

// ArticleIDFromContext returns the in-flight article identifier if present.
func ArticleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(articleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
