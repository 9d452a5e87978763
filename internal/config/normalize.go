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
	if err := c.normalizeBeacon(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeBeacon() error {
	c.Beacon.APIEndpoint = strings.TrimSpace(c.Beacon.APIEndpoint)
	if c.Beacon.APIEndpoint == "" {
		c.Beacon.APIEndpoint = defaultAPIEndpoint
	}
	c.Beacon.BaseURL = strings.TrimRight(strings.TrimSpace(c.Beacon.BaseURL), "/")
	if c.Beacon.BaseURL == "" {
		c.Beacon.BaseURL = defaultBaseURL
	}
	c.Beacon.Series = strings.TrimSpace(c.Beacon.Series)
	if c.Beacon.Series == "" {
		c.Beacon.Series = defaultSeries
	}
	if value, ok := os.LookupEnv("BEACON_COOKIE_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Beacon.CookieFile = strings.TrimSpace(value)
	}
	var err error
	if c.Beacon.CookieFile, err = expandPath(c.Beacon.CookieFile); err != nil {
		return fmt.Errorf("beacon.cookie_file: %w", err)
	}
	c.Beacon.UserAgent = strings.TrimSpace(c.Beacon.UserAgent)
	if c.Beacon.UserAgent == "" {
		c.Beacon.UserAgent = defaultUserAgent
	}
	if c.Beacon.RequestTimeout <= 0 {
		c.Beacon.RequestTimeout = defaultRequestTimeout
	}
	if c.Beacon.Collections == nil {
		c.Beacon.Collections = map[string]string{}
	}
	return nil
}

func (c *Config) normalizeNaming() {
	c.Naming.ReleaseGroup = strings.TrimSpace(c.Naming.ReleaseGroup)
	c.Naming.Resolution = strings.ToLower(strings.TrimSpace(c.Naming.Resolution))
	c.Naming.SourceTag = strings.TrimSpace(c.Naming.SourceTag)
	c.Naming.Container = strings.ToLower(strings.TrimSpace(c.Naming.Container))
	c.Naming.AudioCodec = strings.TrimSpace(c.Naming.AudioCodec)
	c.Naming.AudioChannels = strings.TrimSpace(c.Naming.AudioChannels)
	c.Naming.VideoCodec = strings.TrimSpace(c.Naming.VideoCodec)
}

func (c *Config) normalizeTools() {
	c.Tools.YtdlpBinary = strings.TrimSpace(c.Tools.YtdlpBinary)
	if c.Tools.YtdlpBinary == "" {
		c.Tools.YtdlpBinary = defaultYtdlpBinary
	}
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Tools.FetchTimeout <= 0 {
		c.Tools.FetchTimeout = defaultFetchTimeout
	}
	if c.Tools.MuxTimeout <= 0 {
		c.Tools.MuxTimeout = defaultMuxTimeout
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
