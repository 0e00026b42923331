package config

const (
	defaultWorkDir            = "~/.local/share/peacedoon/work"
	defaultLogDir             = "~/.local/share/peacedoon/logs"
	defaultVoice              = "Joanna"
	defaultSynthesisLanguage  = "en-US"
	defaultAudioFormat        = "mp3"
	defaultMaxChunkChars      = 1500
	defaultSynthesisTimeout   = 60
	defaultMusicAttenuationDb = -7.0
	defaultPodcastSubtitle    = "-"
	defaultPodcastLanguage    = "en"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultScratchMaxAgeHours = 48
	defaultFeedTimeout        = 30
	defaultUploadTimeout      = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Synthesis: Synthesis{
			Voice:          defaultVoice,
			Language:       defaultSynthesisLanguage,
			Format:         defaultAudioFormat,
			MaxChunkChars:  defaultMaxChunkChars,
			RequestTimeout: defaultSynthesisTimeout,
		},
		Audio: Audio{
			MusicAttenuationDb: defaultMusicAttenuationDb,
		},
		Podcast: Podcast{
			Subtitle:   defaultPodcastSubtitle,
			Language:   defaultPodcastLanguage,
			Categories: []string{"Technology"},
		},
		Workflow: Workflow{
			ScratchMaxAgeHours:   defaultScratchMaxAgeHours,
			FeedRequestTimeout:   defaultFeedTimeout,
			UploadRequestTimeout: defaultUploadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
