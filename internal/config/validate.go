package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if c.Synthesis.Endpoint == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/peacedoon/config.toml"
		}
		return fmt.Errorf("synthesis.endpoint is required. Edit %s (create with 'peacedoon config init')", defaultPath)
	}
	if c.Synthesis.MaxChunkChars <= 0 {
		return errors.New("synthesis.max_chunk_chars must be positive")
	}
	if c.Synthesis.RequestTimeout <= 0 {
		return errors.New("synthesis.request_timeout must be positive (seconds)")
	}
	switch c.Synthesis.Format {
	case "mp3", "ogg":
	default:
		return fmt.Errorf("synthesis.format must be mp3 or ogg, got %q", c.Synthesis.Format)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.MusicAttenuationDb > 0 {
		return errors.New("audio.music_attenuation_db must be zero or negative")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.URL == "" && c.Storage.Bucket == "" && c.Storage.PublicURLPrefix == "" {
		// Upload disabled; builds stay local.
		return nil
	}
	if c.Storage.URL == "" {
		return errors.New("storage.url must be set when storage is configured")
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket must be set when storage is configured")
	}
	if c.Storage.PublicURLPrefix == "" {
		return errors.New("storage.public_url_prefix must be set when storage is configured")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.scratch_max_age_hours":  c.Workflow.ScratchMaxAgeHours,
		"workflow.feed_request_timeout":   c.Workflow.FeedRequestTimeout,
		"workflow.upload_request_timeout": c.Workflow.UploadRequestTimeout,
	}); err != nil {
		return err
	}
	return nil
}

// UploadEnabled reports whether a storage target is configured.
func (c *Config) UploadEnabled() bool {
	return c.Storage.URL != "" && c.Storage.Bucket != "" && c.Storage.PublicURLPrefix != ""
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
