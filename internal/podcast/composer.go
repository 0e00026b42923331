package podcast

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ld100/peacedoon/internal/services"
)

// ErrInvalidChannel indicates channel metadata too incomplete to publish.
var ErrInvalidChannel = errors.New("channel requires a title and link")

// Channel holds the feed-level metadata for one podcast.
type Channel struct {
	Slug        string
	Title       string
	Link        string
	Description string
	Author      string
	Email       string
	Subtitle    string
	Language    string
	LogoURL     string
	Categories  []string
}

type composerState int

const (
	stateEmpty composerState = iota
	stateBuilt
	stateSerialized
)

// Composer accumulates episodes and renders the channel document.
// Episodes appear in the output in the order they were appended. Serialize
// caches its result; appending another episode invalidates the cache.
type Composer struct {
	channel       Channel
	storagePrefix string
	episodes      []Episode
	state         composerState
	cached        []byte
}

// NewComposer creates a composer for one channel. storagePrefix is the
// public base URL under which audio files are reachable.
func NewComposer(channel Channel, storagePrefix string) *Composer {
	return &Composer{
		channel:       channel,
		storagePrefix: strings.TrimRight(storagePrefix, "/"),
	}
}

// Build validates the channel metadata and marks the composer ready to
// serialize.
func (c *Composer) Build() error {
	if strings.TrimSpace(c.channel.Title) == "" || strings.TrimSpace(c.channel.Link) == "" {
		return services.Wrap(services.ErrValidation, "podcast", "build", c.channel.Slug, ErrInvalidChannel)
	}
	c.state = stateBuilt
	return nil
}

// AppendEpisode adds an episode to the end of the feed.
func (c *Composer) AppendEpisode(episode Episode) {
	c.episodes = append(c.episodes, episode)
	if c.state == stateSerialized {
		c.state = stateBuilt
		c.cached = nil
	}
}

// Episodes returns the appended episodes in feed order.
func (c *Composer) Episodes() []Episode {
	out := make([]Episode, len(c.episodes))
	copy(out, c.episodes)
	return out
}

// Serialize renders the RSS document. Repeated calls without intervening
// appends return the identical bytes.
func (c *Composer) Serialize() ([]byte, error) {
	switch c.state {
	case stateEmpty:
		return nil, services.Wrap(services.ErrValidation, "podcast", "serialize", c.channel.Slug,
			errors.New("feed not built"))
	case stateSerialized:
		return c.cached, nil
	}

	body, err := xml.MarshalIndent(c.document(), "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "podcast", "serialize", c.channel.Slug, err)
	}
	c.cached = append([]byte(xml.Header), append(body, '\n')...)
	c.state = stateSerialized
	return c.cached, nil
}

// EnclosureURL reports the URL an episode's audio file is reachable at.
// With a storage prefix configured this is the public object URL. Without
// one the enclosure references the audio file relative to the feed
// document, which is written to the same output directory.
func (c *Composer) EnclosureURL(episode Episode) string {
	base := filepath.Base(episode.AudioPath)
	if c.storagePrefix == "" {
		return base
	}
	return fmt.Sprintf("%s/%s/%s", c.storagePrefix, c.channel.Slug, base)
}

func (c *Composer) document() rssDocument {
	channel := rssChannel{
		Title:          c.channel.Title,
		Link:           c.channel.Link,
		Description:    c.channel.Description,
		Language:       c.channel.Language,
		ItunesAuthor:   c.channel.Author,
		ItunesSubtitle: c.channel.Subtitle,
		ItunesSummary:  c.channel.Subtitle,
	}
	if c.channel.LogoURL != "" {
		channel.Image = &rssImage{
			URL:   c.channel.LogoURL,
			Title: c.channel.Title,
			Link:  c.channel.Link,
		}
		channel.ItunesImage = &itunesImage{Href: c.channel.LogoURL}
	}
	if len(c.channel.Categories) > 0 {
		category := &itunesCategory{Text: c.channel.Categories[0]}
		for _, sub := range c.channel.Categories[1:] {
			category.Children = append(category.Children, itunesCategory{Text: sub})
		}
		channel.ItunesCategory = category
	}

	for _, episode := range c.episodes {
		channel.Items = append(channel.Items, rssItem{
			GUID:         rssGUID{IsPermaLink: "false", Value: episode.ID},
			Title:        episode.Title,
			Description:  episode.Description,
			PubDate:      episode.PublishedAt.Format(time.RFC1123Z),
			ItunesAuthor: episode.Author,
			Enclosure: rssEnclosure{
				URL:    c.EnclosureURL(episode),
				Length: episode.FileSizeBytes,
				Type:   "audio/mpeg",
			},
		})
	}

	return rssDocument{
		Version:     "2.0",
		ItunesXMLNS: "http://www.itunes.com/dtds/podcast-1.0.dtd",
		Channel:     channel,
	}
}

type rssDocument struct {
	XMLName     xml.Name   `xml:"rss"`
	Version     string     `xml:"version,attr"`
	ItunesXMLNS string     `xml:"xmlns:itunes,attr"`
	Channel     rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string          `xml:"title"`
	Link           string          `xml:"link"`
	Description    string          `xml:"description"`
	Language       string          `xml:"language,omitempty"`
	Image          *rssImage       `xml:"image,omitempty"`
	ItunesAuthor   string          `xml:"itunes:author,omitempty"`
	ItunesSubtitle string          `xml:"itunes:subtitle,omitempty"`
	ItunesSummary  string          `xml:"itunes:summary,omitempty"`
	ItunesImage    *itunesImage    `xml:"itunes:image,omitempty"`
	ItunesCategory *itunesCategory `xml:"itunes:category,omitempty"`
	Items          []rssItem       `xml:"item"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesCategory struct {
	Text     string           `xml:"text,attr"`
	Children []itunesCategory `xml:"itunes:category,omitempty"`
}

type rssItem struct {
	GUID         rssGUID      `xml:"guid"`
	Title        string       `xml:"title"`
	Description  string       `xml:"description"`
	PubDate      string       `xml:"pubDate"`
	ItunesAuthor string       `xml:"itunes:author,omitempty"`
	Enclosure    rssEnclosure `xml:"enclosure"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}
