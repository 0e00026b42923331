package podcast

import (
	"os"
	"time"

	"github.com/ld100/peacedoon/internal/feed"
	"github.com/ld100/peacedoon/internal/services"
)

// Episode is one publishable entry: a rendered audio file paired with the
// article it was read from. FileSizeBytes is captured at construction so
// the enclosure length matches the file that gets uploaded.
type Episode struct {
	ID            string
	Title         string
	Description   string
	Author        string
	PublishedAt   time.Time
	AudioPath     string
	FileSizeBytes int64
}

// NewEpisode pairs an article with its rendered audio file. The publish
// timestamp is the article's, converted to UTC, or the current UTC time
// when the source entry carried none.
func NewEpisode(article feed.Article, audioPath string) (Episode, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return Episode{}, services.Wrap(services.ErrValidation, "podcast", "episode", "stat audio file", err)
	}

	publishedAt := time.Now().UTC()
	if article.PublishedAt != nil {
		publishedAt = article.PublishedAt.UTC()
	}

	return Episode{
		ID:            article.ID,
		Title:         article.Title,
		Description:   article.BodyText,
		Author:        article.Author,
		PublishedAt:   publishedAt,
		AudioPath:     audioPath,
		FileSizeBytes: info.Size(),
	}, nil
}
