package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/services"
)

// Feed is a parsed syndication feed with its entries in document order.
type Feed struct {
	Title       string
	Link        string
	Description string
	Language    string
	Author      string
	ImageURL    string
	Articles    []Article
}

// Fetcher retrieves and normalizes syndication feeds.
type Fetcher struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewFetcher constructs a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{
		parser: parser,
		logger: logging.NewComponentLogger(logger, "feed"),
	}
}

// Fetch downloads and parses the feed at url. Entry order matches the
// document order of the source feed. Entries missing both id and link, or
// missing a title, are skipped with a warning rather than failing the run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Feed, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "feed", "fetch", url, err)
	}

	result := &Feed{
		Title:       strings.TrimSpace(parsed.Title),
		Link:        strings.TrimSpace(parsed.Link),
		Description: strings.TrimSpace(parsed.Description),
		Language:    strings.TrimSpace(parsed.Language),
		Articles:    make([]Article, 0, len(parsed.Items)),
	}
	if parsed.Image != nil {
		result.ImageURL = strings.TrimSpace(parsed.Image.URL)
	}
	for _, author := range parsed.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			result.Author = strings.TrimSpace(author.Name)
			break
		}
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		author := authorFor(item)
		if author == "" {
			author = result.Author
		}
		article, err := NewArticle(item.GUID, item.Title, item.Link, bodyFor(item), author, item.PublishedParsed)
		if err != nil {
			f.logger.Warn("skipping unusable feed entry",
				logging.String("link", item.Link),
				logging.Error(err),
				logging.String(logging.FieldEventType, "feed_entry_skipped"),
			)
			continue
		}
		result.Articles = append(result.Articles, article)
	}

	f.logger.Debug("feed fetched",
		logging.String("url", url),
		logging.Int("articles", len(result.Articles)),
	)
	return result, nil
}

// bodyFor prefers the full content representation over the summary.
func bodyFor(item *gofeed.Item) string {
	if strings.TrimSpace(item.Content) != "" {
		return item.Content
	}
	return item.Description
}

func authorFor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return author.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
