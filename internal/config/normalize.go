package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeDocuments()
	c.normalizePodcast()
	c.normalizeImage()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.APIKey = strings.TrimSpace(c.API.APIKey)
	if c.API.APIKey == "" {
		if value, ok := os.LookupEnv("LEMONFOX_API_KEY"); ok {
			c.API.APIKey = strings.TrimSpace(value)
		}
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.ChatModel = strings.TrimSpace(c.API.ChatModel)
	if c.API.ChatModel == "" {
		c.API.ChatModel = defaultChatModel
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
}

func (c *Config) normalizeDocuments() {
	if c.Documents.MaxSizeMiB <= 0 {
		c.Documents.MaxSizeMiB = defaultMaxDocumentSizeMiB
	}
	cleaned := make([]string, 0, len(c.Documents.AllowedExtensions))
	for _, ext := range c.Documents.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, defaultAllowedExtensions...)
	}
	c.Documents.AllowedExtensions = cleaned
}

func (c *Config) normalizePodcast() {
	if c.Podcast.Speed <= 0 {
		c.Podcast.Speed = defaultPodcastSpeed
	}
	if c.Podcast.PauseBetweenSpeakers < 0 {
		c.Podcast.PauseBetweenSpeakers = defaultPauseBetweenSpeakers
	}
	voices := make([]string, 0, len(c.Podcast.Voices))
	for _, voice := range c.Podcast.Voices {
		voice = strings.ToLower(strings.TrimSpace(voice))
		if voice != "" {
			voices = append(voices, voice)
		}
	}
	if len(voices) == 0 {
		voices = append(voices, defaultVoices...)
	}
	c.Podcast.Voices = voices
}

func (c *Config) normalizeImage() {
	c.Image.Size = strings.TrimSpace(c.Image.Size)
	if c.Image.Size == "" {
		c.Image.Size = defaultImageSize
	}
	c.Image.ResponseFormat = strings.ToLower(strings.TrimSpace(c.Image.ResponseFormat))
	if c.Image.ResponseFormat == "" {
		c.Image.ResponseFormat = defaultImageResponseFormat
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ContextMaxChars <= 0 {
		c.Workflow.ContextMaxChars = defaultContextMaxChars
	}
	if c.Workflow.StepTimeoutSeconds <= 0 {
		c.Workflow.StepTimeoutSeconds = defaultStepTimeoutSeconds
	}
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
