package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/ld100/peacedoon/internal/services"
)

func TestNewArticleStripsBody(t *testing.T) {
	published := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	article, err := NewArticle("guid-1", " Breaking News ", "https://example.com/post", "<p>Hello <b>world</b></p>", "Pat Doe", &published)
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}
	if article.ID != "guid-1" {
		t.Fatalf("id = %q", article.ID)
	}
	if article.Title != "Breaking News" {
		t.Fatalf("title = %q", article.Title)
	}
	if article.BodyText != "Hello world" {
		t.Fatalf("body = %q", article.BodyText)
	}
	if article.PublishedAt == nil || !article.PublishedAt.Equal(published) {
		t.Fatalf("publishedAt = %v", article.PublishedAt)
	}
}

func TestNewArticleFallsBackToLink(t *testing.T) {
	article, err := NewArticle("", "Title", "https://example.com/a", "", "", nil)
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}
	if article.ID != "https://example.com/a" {
		t.Fatalf("id = %q", article.ID)
	}
}

func TestNewArticleRejectsMissingIdentity(t *testing.T) {
	_, err := NewArticle("", "Title", "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewArticleRejectsMissingTitle(t *testing.T) {
	_, err := NewArticle("guid", "   ", "https://example.com", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"tags", "<div><p>one</p><p>two</p></div>", "one two"},
		{"entities", "fish &amp; chips", "fish & chips"},
		{"script dropped", `<p>keep</p><script>alert("no")</script>`, "keep"},
		{"style dropped", "<style>p{color:red}</style><p>visible</p>", "visible"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StripHTML(tc.in)
			if err != nil {
				t.Fatalf("StripHTML: %v", err)
			}
			if got != tc.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
