package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ld100/peacedoon/internal/logging"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Journal</title>
    <link>https://journal.example.com</link>
    <description>Daily notes</description>
    <language>en-us</language>
    <item>
      <guid>post-1</guid>
      <title>First Post</title>
      <link>https://journal.example.com/1</link>
      <description>&lt;p&gt;Summary one&lt;/p&gt;</description>
      <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <guid>post-2</guid>
      <title>Second Post</title>
      <link>https://journal.example.com/2</link>
      <description>Summary two</description>
    </item>
    <item>
      <title></title>
      <link>https://journal.example.com/broken</link>
      <description>no title here</description>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Notes</title>
  <link href="https://atom.example.com"/>
  <author><name>A. Writer</name></author>
  <entry>
    <id>urn:entry:1</id>
    <title>Entry One</title>
    <link href="https://atom.example.com/1"/>
    <content type="html">&lt;p&gt;Full body&lt;/p&gt;</content>
    <summary>Short summary</summary>
  </entry>
</feed>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchRSS(t *testing.T) {
	server := serveFeed(t, sampleRSS)
	fetcher := NewFetcher(5*time.Second, logging.NewNop())

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Title != "Example Journal" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Language != "en-us" {
		t.Fatalf("language = %q", got.Language)
	}
	if len(got.Articles) != 2 {
		t.Fatalf("expected the titleless entry skipped, got %d articles", len(got.Articles))
	}
	if got.Articles[0].ID != "post-1" || got.Articles[1].ID != "post-2" {
		t.Fatalf("document order lost: %q %q", got.Articles[0].ID, got.Articles[1].ID)
	}
	if got.Articles[0].BodyText != "Summary one" {
		t.Fatalf("body = %q", got.Articles[0].BodyText)
	}
	if got.Articles[0].PublishedAt == nil {
		t.Fatal("expected parsed pubDate")
	}
}

func TestFetchAtomPrefersContent(t *testing.T) {
	server := serveFeed(t, sampleAtom)
	fetcher := NewFetcher(5*time.Second, logging.NewNop())

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.Articles) != 1 {
		t.Fatalf("articles = %d", len(got.Articles))
	}
	if got.Articles[0].BodyText != "Full body" {
		t.Fatalf("content should win over summary, got %q", got.Articles[0].BodyText)
	}
	if got.Articles[0].Author != "A. Writer" {
		t.Fatalf("author = %q", got.Articles[0].Author)
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>Quiet</title><link>https://q.example.com</link><description>d</description></channel></rss>`
	server := serveFeed(t, empty)
	fetcher := NewFetcher(5*time.Second, logging.NewNop())

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.Articles) != 0 {
		t.Fatalf("expected zero articles, got %d", len(got.Articles))
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := serveFeed(t, sampleRSS)
	url := server.URL
	server.Close()

	fetcher := NewFetcher(time.Second, logging.NewNop())
	if _, err := fetcher.Fetch(context.Background(), url); err == nil {
		t.Fatal("expected error for unreachable feed")
	}
}
