package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSynthesis(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeStorage()
	if err := c.normalizePodcast(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSynthesis() error {
	if c.Synthesis.APIKey == "" {
		if value, ok := os.LookupEnv("PEACEDOON_SYNTHESIS_API_KEY"); ok {
			c.Synthesis.APIKey = strings.TrimSpace(value)
		}
	}
	c.Synthesis.Endpoint = strings.TrimRight(strings.TrimSpace(c.Synthesis.Endpoint), "/")
	c.Synthesis.Voice = strings.TrimSpace(c.Synthesis.Voice)
	if c.Synthesis.Voice == "" {
		c.Synthesis.Voice = defaultVoice
	}
	c.Synthesis.Format = strings.ToLower(strings.TrimSpace(c.Synthesis.Format))
	if c.Synthesis.Format == "" {
		c.Synthesis.Format = defaultAudioFormat
	}
	tagValue := strings.TrimSpace(c.Synthesis.Language)
	if tagValue == "" {
		tagValue = defaultSynthesisLanguage
	}
	tag, err := language.Parse(tagValue)
	if err != nil {
		return fmt.Errorf("synthesis.language: unrecognized tag %q: %w", tagValue, err)
	}
	c.Synthesis.Language = tag.String()
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.MusicPath = strings.TrimSpace(c.Audio.MusicPath)
	if c.Audio.MusicPath != "" {
		if expanded, err := expandPath(c.Audio.MusicPath); err == nil {
			c.Audio.MusicPath = expanded
		}
	}
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
}

func (c *Config) normalizeStorage() {
	if c.Storage.APIKey == "" {
		if value, ok := os.LookupEnv("PEACEDOON_STORAGE_API_KEY"); ok {
			c.Storage.APIKey = strings.TrimSpace(value)
		}
	}
	c.Storage.URL = strings.TrimRight(strings.TrimSpace(c.Storage.URL), "/")
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.PublicURLPrefix = strings.TrimRight(strings.TrimSpace(c.Storage.PublicURLPrefix), "/")
}

func (c *Config) normalizePodcast() error {
	c.Podcast.Author = strings.TrimSpace(c.Podcast.Author)
	c.Podcast.Email = strings.TrimSpace(c.Podcast.Email)
	c.Podcast.Subtitle = strings.TrimSpace(c.Podcast.Subtitle)
	if c.Podcast.Subtitle == "" {
		c.Podcast.Subtitle = defaultPodcastSubtitle
	}
	tagValue := strings.TrimSpace(c.Podcast.Language)
	if tagValue == "" {
		tagValue = defaultPodcastLanguage
	}
	tag, err := language.Parse(tagValue)
	if err != nil {
		return fmt.Errorf("podcast.language: unrecognized tag %q: %w", tagValue, err)
	}
	c.Podcast.Language = strings.ToLower(tag.String())
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
