package feed

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ld100/peacedoon/internal/services"
)

// Article is a normalized feed entry. Immutable once produced; owned by
// the pipeline for the duration of one build.
type Article struct {
	ID          string
	Title       string
	Link        string
	BodyText    string
	Author      string
	PublishedAt *time.Time
}

// NewArticle constructs an Article, rejecting entries that lack the fields
// the pipeline depends on. bodyHTML is stripped to plain text here so every
// consumer sees the same representation.
func NewArticle(id, title, link, bodyHTML, author string, publishedAt *time.Time) (Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = strings.TrimSpace(link)
	}
	if id == "" {
		return Article{}, services.Wrap(services.ErrValidation, "feed", "article", "entry has neither id nor link", nil)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Article{}, services.Wrap(services.ErrValidation, "feed", "article", "entry has no title", nil)
	}

	body, err := StripHTML(bodyHTML)
	if err != nil {
		return Article{}, services.Wrap(services.ErrValidation, "feed", "article", "strip body html", err)
	}

	return Article{
		ID:          id,
		Title:       title,
		Link:        strings.TrimSpace(link),
		BodyText:    body,
		Author:      strings.TrimSpace(author),
		PublishedAt: publishedAt,
	}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// StripHTML reduces an HTML fragment to its visible plain text. Tags are
// removed, entities decoded, script and style subtrees dropped, and
// whitespace collapsed, preserving the reading order of visible text.
func StripHTML(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	// Pad tag boundaries so adjacent elements do not fuse their text
	// ("<p>one</p><p>two</p>" must read "one two", not "onetwo"). The
	// extra runs collapse below.
	fragment = strings.ReplaceAll(fragment, "<", " <")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	text := doc.Text()
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}
