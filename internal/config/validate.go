package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	resolutionPattern    = regexp.MustCompile(`^\d{3,4}p$`)
	audioChannelsPattern = regexp.MustCompile(`^\d+\.\d+$`)
	slugPattern          = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

var supportedContainers = map[string]struct{}{
	"mkv": {}, "mp4": {}, "avi": {}, "mov": {}, "webm": {}, "flv": {}, "m4v": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateBeacon(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return errors.New("paths.download_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set")
	}
	return nil
}

func (c *Config) validateNaming() error {
	if !resolutionPattern.MatchString(c.Naming.Resolution) {
		return fmt.Errorf("naming.resolution %q must look like 1080p", c.Naming.Resolution)
	}
	if !audioChannelsPattern.MatchString(c.Naming.AudioChannels) {
		return fmt.Errorf("naming.audio_channels %q must look like 2.0", c.Naming.AudioChannels)
	}
	if _, ok := supportedContainers[c.Naming.Container]; !ok {
		return fmt.Errorf("naming.container %q is not a supported container format", c.Naming.Container)
	}
	if c.Naming.SourceTag == "" {
		return errors.New("naming.source_tag must be set")
	}
	if c.Naming.AudioCodec == "" || c.Naming.VideoCodec == "" {
		return errors.New("naming.audio_codec and naming.video_codec must be set")
	}
	return nil
}

func (c *Config) validateBeacon() error {
	if !strings.HasPrefix(c.Beacon.APIEndpoint, "http") {
		return fmt.Errorf("beacon.api_endpoint %q must be an HTTP(S) URL", c.Beacon.APIEndpoint)
	}
	if !slugPattern.MatchString(c.Beacon.Series) {
		return fmt.Errorf("beacon.series %q may only contain alphanumerics, hyphens, and underscores", c.Beacon.Series)
	}
	for slug := range c.Beacon.Collections {
		if !slugPattern.MatchString(slug) {
			return fmt.Errorf("beacon.collections key %q is not a valid slug", slug)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
