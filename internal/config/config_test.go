package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Postmodum37/beacon-dl/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, resolved %q", resolved)
	}
	if cfg.Naming.Resolution != "1080p" {
		t.Fatalf("expected default resolution, got %q", cfg.Naming.Resolution)
	}
	if cfg.Beacon.Series != "campaign-4" {
		t.Fatalf("expected default series, got %q", cfg.Beacon.Series)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
download_dir = "` + filepath.Join(dir, "out") + `"
staging_dir = "` + filepath.Join(dir, "staging") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
history_db = "` + filepath.Join(dir, "history.db") + `"

[naming]
resolution = "720P"
container = "MKV"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Naming.Resolution != "720p" {
		t.Fatalf("expected lowercased resolution, got %q", cfg.Naming.Resolution)
	}
	if cfg.Naming.Container != "mkv" {
		t.Fatalf("expected lowercased container, got %q", cfg.Naming.Container)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased level, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"resolution", func(c *config.Config) { c.Naming.Resolution = "fourk" }, "naming.resolution"},
		{"channels", func(c *config.Config) { c.Naming.AudioChannels = "stereo" }, "naming.audio_channels"},
		{"container", func(c *config.Config) { c.Naming.Container = "iso" }, "naming.container"},
		{"series", func(c *config.Config) { c.Beacon.Series = "bad slug!" }, "beacon.series"},
		{"format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected %q in error %q", tc.wantSub, err)
			}
		})
	}
}

func TestCookieFileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "cookies.txt")
	t.Setenv("BEACON_COOKIE_FILE", override)

	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Beacon.CookieFile != override {
		t.Fatalf("expected cookie file override %q, got %q", override, cfg.Beacon.CookieFile)
	}
}

func TestSampleConfigNotEmpty(t *testing.T) {
	if !strings.Contains(config.SampleConfig(), "[naming]") {
		t.Fatal("sample config should document the naming section")
	}
}
