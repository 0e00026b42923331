package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Synthesis contains configuration for the speech synthesis engine.
type Synthesis struct {
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	Voice          string `toml:"voice"`
	Language       string `toml:"language"`
	Format         string `toml:"format"`
	MaxChunkChars  int    `toml:"max_chunk_chars"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Audio contains configuration for episode audio assembly.
type Audio struct {
	MusicPath          string  `toml:"music_path"`
	MusicAttenuationDb float64 `toml:"music_attenuation_db"`
	FFmpegBinary       string  `toml:"ffmpeg_binary"`
}

// Storage contains configuration for the object storage collaborator.
type Storage struct {
	URL             string `toml:"url"`
	APIKey          string `toml:"api_key"`
	Bucket          string `toml:"bucket"`
	PublicURLPrefix string `toml:"public_url_prefix"`
}

// Podcast contains channel metadata applied to generated feeds.
type Podcast struct {
	Author     string   `toml:"author"`
	Email      string   `toml:"email"`
	Subtitle   string   `toml:"subtitle"`
	Language   string   `toml:"language"`
	LogoURL    string   `toml:"logo_url"`
	Categories []string `toml:"categories"`
}

// Workflow contains build policy settings.
type Workflow struct {
	SkipFailedArticles   bool `toml:"skip_failed_articles"`
	ScratchMaxAgeHours   int  `toml:"scratch_max_age_hours"`
	FeedRequestTimeout   int  `toml:"feed_request_timeout"`
	UploadRequestTimeout int  `toml:"upload_request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for peacedoon.
//
// Configuration sections by subsystem:
//   - Paths: working/scratch and log directories
//   - Synthesis: speech engine endpoint, voice, and chunk ceiling
//   - Audio: background music bed and ffmpeg settings
//   - Storage: object storage upload target and public URL prefix
//   - Podcast: channel metadata for the generated feed
//   - Workflow: per-run build policy
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Synthesis Synthesis `toml:"synthesis"`
	Audio     Audio     `toml:"audio"`
	Storage   Storage   `toml:"storage"`
	Podcast   Podcast   `toml:"podcast"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/peacedoon/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("peacedoon.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a build run requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ScratchDir returns the directory holding per-run intermediate audio.
func (c *Config) ScratchDir() string {
	return filepath.Join(c.Paths.WorkDir, "scratch")
}

// FFmpegBinary returns the ffmpeg executable used for audio assembly.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Audio.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
