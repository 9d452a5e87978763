package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/config"
	"github.com/Postmodum37/beacon-dl/internal/download"
	"github.com/Postmodum37/beacon-dl/internal/history"
	"github.com/Postmodum37/beacon-dl/internal/logging"
	"github.com/Postmodum37/beacon-dl/internal/services/auth"
	"github.com/Postmodum37/beacon-dl/internal/services/beacon"
	"github.com/Postmodum37/beacon-dl/internal/services/ffmpeg"
	"github.com/Postmodum37/beacon-dl/internal/services/ytdlp"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.Paths.HistoryDB)
}

func (c *commandContext) loadSession() (*auth.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return auth.Load(cfg.Beacon.CookieFile, time.Now())
}

func (c *commandContext) newCatalog(session *auth.Session) (*beacon.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return beacon.New(cfg.Beacon.APIEndpoint, cfg.Beacon.BaseURL, session,
		beacon.WithCollectionCache(cfg.Beacon.Collections),
		beacon.WithUserAgent(cfg.Beacon.UserAgent),
	)
}

func (c *commandContext) newOrchestrator(store *history.Store, reporter download.Reporter, withHash bool) (*download.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	fetcher, err := ytdlp.New(cfg.Tools.YtdlpBinary, cfg.Beacon.CookieFile, cfg.Beacon.UserAgent, cfg.Tools.FetchTimeout,
		ytdlp.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	muxer, err := ffmpeg.New(cfg.Tools.FFmpegBinary, cfg.Tools.MuxTimeout)
	if err != nil {
		return nil, err
	}
	return download.New(cfg, store, fetcher, muxer,
		download.WithReporter(reporter),
		download.WithLogger(logger),
		download.WithHashing(withHash),
	), nil
}

func (c *commandContext) lockPath() string {
	cfg := c.config
	if cfg == nil {
		return ""
	}
	return filepath.Join(cfg.Paths.LogDir, "beacon-dl.lock")
}

// signalContext derives a context that cancels on SIGINT or SIGTERM so
// an interrupted run still reaches the staging cleanup paths.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
