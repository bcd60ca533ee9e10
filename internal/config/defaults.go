package config

const (
	defaultDataDir              = "~/.local/share/papercast"
	defaultStagingDir           = "~/.local/share/papercast/staging"
	defaultLogDir               = "~/.local/share/papercast/logs"
	defaultBaseURL              = "https://api.lemonfox.ai/v1"
	defaultChatModel            = "llama-8b-chat"
	defaultAPITimeoutSeconds    = 60
	defaultMaxDocumentSizeMiB   = 25
	defaultPodcastSpeed         = 1.0
	defaultPauseBetweenSpeakers = 0.5
	defaultImageSize            = "1024x1024"
	defaultImageResponseFormat  = "url"
	defaultContextMaxChars      = 6000
	defaultStepTimeoutSeconds   = 300
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

var defaultAllowedExtensions = []string{"pdf", "txt", "md"}

// defaultVoices is the round-robin voice rotation used when a script does not
// pin voices explicitly.
var defaultVoices = []string{"heart", "bella", "dan", "liv", "will", "amy"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		API: API{
			BaseURL:        defaultBaseURL,
			ChatModel:      defaultChatModel,
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Documents: Documents{
			MaxSizeMiB:        defaultMaxDocumentSizeMiB,
			AllowedExtensions: append([]string{}, defaultAllowedExtensions...),
		},
		Podcast: Podcast{
			Speed:                defaultPodcastSpeed,
			PauseBetweenSpeakers: defaultPauseBetweenSpeakers,
			Voices:               append([]string{}, defaultVoices...),
		},
		Image: Image{
			Size:           defaultImageSize,
			ResponseFormat: defaultImageResponseFormat,
		},
		Workflow: Workflow{
			ContextMaxChars:    defaultContextMaxChars,
			StepTimeoutSeconds: defaultStepTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
