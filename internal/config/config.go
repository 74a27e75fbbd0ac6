package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/chorus/internal/acrcloud"
	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/lrclib"
	"github.com/llehouerou/chorus/internal/syncclock"
)

type Config struct {
	// ACRCloud project credentials (required unless server.url is set)
	ACRCloud ACRCloudConfig `koanf:"acrcloud"`

	// lrclib endpoint
	Lrclib LrclibConfig `koanf:"lrclib"`

	// Audio capture
	Capture CaptureConfig `koanf:"capture"`

	// Detection loop and sync clock tunables
	Sync SyncConfig `koanf:"sync"`

	// Remote identification server, and the listen address of chorusd
	Server ServerConfig `koanf:"server"`

	// Last.fm now playing (enabled when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Notifications bool `koanf:"notifications"` // desktop notification on lock
	MPRIS         bool `koanf:"mpris"`         // expose an MPRIS player on D-Bus
}

// ACRCloudConfig holds the recognition provider settings.
type ACRCloudConfig struct {
	Host         string        `koanf:"host"`
	AccessKey    string        `koanf:"access_key"`
	AccessSecret string        `koanf:"access_secret"`
	Timeout      time.Duration `koanf:"timeout"`
}

// LrclibConfig holds the lyrics provider settings.
type LrclibConfig struct {
	URL string `koanf:"url"`
}

// CaptureConfig holds audio capture settings.
type CaptureConfig struct {
	Backend    string        `koanf:"backend"`     // "pulse" or "file" (default: "pulse")
	File       string        `koanf:"file"`        // clip replayed by the file backend
	Source     string        `koanf:"source"`      // PulseAudio source name, empty for default
	Duration   time.Duration `koanf:"duration"`    // sample length (default: 12s)
	SampleRate int           `koanf:"sample_rate"` // default: 44100
	Gain       float64       `koanf:"gain"`        // pre-filter gain, 0 disables
}

// SyncConfig holds detection loop and clock tunables.
type SyncConfig struct {
	DriftThreshold time.Duration `koanf:"drift_threshold"` // default: 3s
	Smoothing      float64       `koanf:"smoothing"`       // 0-1, default: 0.3
	RetryDelay     time.Duration `koanf:"retry_delay"`     // default: 1s
	EndGrace       time.Duration `koanf:"end_grace"`       // default: 2s
	RequestTimeout time.Duration `koanf:"request_timeout"` // default: 15s
}

// ServerConfig holds chorusd settings.
type ServerConfig struct {
	URL            string   `koanf:"url"`    // e.g., "http://localhost:3000"
	Listen         string   `koanf:"listen"` // default: ":3000"
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LastfmConfig holds Last.fm configuration. The session key is obtained
// out of band.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"`
}

// envKeys maps the documented environment variables to config keys.
var envKeys = map[string]string{
	"ACRCLOUD_HOST":          "acrcloud.host",
	"ACRCLOUD_ACCESS_KEY":    "acrcloud.access_key",
	"ACRCLOUD_ACCESS_SECRET": "acrcloud.access_secret",
	"LRCLIB_API_URL":         "lrclib.url",
	"CHORUS_SERVER_URL":      "server.url",
	"CHORUS_LISTEN_ADDR":     "server.listen",
	"LASTFM_API_KEY":         "lastfm.api_key",
	"LASTFM_API_SECRET":      "lastfm.api_secret",
	"LASTFM_SESSION_KEY":     "lastfm.session_key",
}

// Load reads config files, then .env, then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; existing variables are not overridden.
	_ = godotenv.Load()
	return load(getConfigPaths())
}

func load(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{
		ACRCloud: ACRCloudConfig{Host: acrcloud.DefaultHost},
		Lrclib:   LrclibConfig{URL: lrclib.DefaultBaseURL},
		Capture:  CaptureConfig{Backend: "pulse"},
		Server:   ServerConfig{Listen: ":3000"},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Lrclib.URL = strings.TrimSuffix(cfg.Lrclib.URL, "/")
	cfg.Server.URL = strings.TrimSuffix(cfg.Server.URL, "/")
	if cfg.Capture.File != "" {
		cfg.Capture.File = expandPath(cfg.Capture.File)
	}

	return cfg, nil
}

// envKey maps a documented, non-empty variable to its config key. An empty
// key tells the provider to skip the variable.
func envKey(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envKeys[name], value
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/chorus/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "chorus", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasACRCloudConfig returns true if direct identification is configured.
func (c *Config) HasACRCloudConfig() bool {
	return c.ACRCloud.AccessKey != "" && c.ACRCloud.AccessSecret != ""
}

// HasServerConfig returns true if identification goes through chorusd.
func (c *Config) HasServerConfig() bool {
	return c.Server.URL != ""
}

// HasLastfmConfig returns true if Last.fm now playing is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != "" && c.Lastfm.SessionKey != ""
}

// GetSyncConfig returns the sync configuration with defaults applied.
func (c *Config) GetSyncConfig() SyncConfig {
	cfg := c.Sync

	// Apply defaults
	if cfg.DriftThreshold <= 0 {
		cfg.DriftThreshold = syncclock.DefaultDriftThreshold
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = syncclock.DefaultSmoothing
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.EndGrace <= 0 {
		cfg.EndGrace = syncclock.EndGrace
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	return cfg
}

// GetCaptureConfig returns the capture configuration with defaults applied.
func (c *Config) GetCaptureConfig() CaptureConfig {
	cfg := c.Capture

	if cfg.Backend != "file" {
		cfg.Backend = "pulse"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = capture.DefaultDuration
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Gain < 0 {
		cfg.Gain = 0
	}

	return cfg
}

// ClockParams returns the estimator parameters.
func (s SyncConfig) ClockParams() syncclock.Params {
	return syncclock.Params{DriftThreshold: s.DriftThreshold, Smoothing: s.Smoothing}
}
