package config

import (
	"errors"
	"fmt"
	"strings"
)

var validImageSizes = map[string]struct{}{
	"512x512":   {},
	"768x768":   {},
	"1024x1024": {},
	"1024x576":  {},
	"576x1024":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	if err := c.validatePodcast(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds > 600 {
		return errors.New("api.timeout_seconds must be 600 or less")
	}
	return nil
}

func (c *Config) validateImage() error {
	if _, ok := validImageSizes[c.Image.Size]; !ok {
		return fmt.Errorf("image.size %q is not supported", c.Image.Size)
	}
	switch c.Image.ResponseFormat {
	case "url", "b64_json":
		return nil
	default:
		return fmt.Errorf("image.response_format must be url or b64_json, got %q", c.Image.ResponseFormat)
	}
}

func (c *Config) validatePodcast() error {
	if c.Podcast.Speed < 0.5 || c.Podcast.Speed > 4.0 {
		return errors.New("podcast.speed must be between 0.5 and 4.0")
	}
	if c.Podcast.PauseBetweenSpeakers > 10 {
		return errors.New("podcast.pause_between_speakers must be 10 seconds or less")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
}
