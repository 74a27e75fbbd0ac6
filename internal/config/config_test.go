//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/clips/sample.wav",
			expected: filepath.Join(home, "clips", "sample.wav"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/tmp/sample.wav",
			expected: "/tmp/sample.wav",
		},
		{
			name:     "relative path unchanged",
			input:    "clips/sample.wav",
			expected: "clips/sample.wav",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "chorus", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

// clearEnv blanks every documented variable so the host environment does
// not leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range envKeys {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.ACRCloud.Host != "identify-us-west-2.acrcloud.com" {
		t.Errorf("ACRCloud.Host = %q", cfg.ACRCloud.Host)
	}
	if cfg.Lrclib.URL != "https://lrclib.net/api" {
		t.Errorf("Lrclib.URL = %q", cfg.Lrclib.URL)
	}
	if cfg.Server.Listen != ":3000" {
		t.Errorf("Server.Listen = %q", cfg.Server.Listen)
	}
	if cfg.Capture.Backend != "pulse" {
		t.Errorf("Capture.Backend = %q", cfg.Capture.Backend)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
notifications = true
mpris = true

[acrcloud]
host = "identify-eu-west-1.acrcloud.com"
access_key = "file-key"
access_secret = "file-secret"
timeout = "20s"

[lrclib]
url = "http://localhost:8080/api/"

[capture]
backend = "file"
file = "/tmp/clip.wav"
duration = "8s"
gain = 0.5

[sync]
drift_threshold = "2s"
smoothing = 0.5
`)

	cfg, err := load([]string{path})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.ACRCloud.Host != "identify-eu-west-1.acrcloud.com" || cfg.ACRCloud.AccessKey != "file-key" {
		t.Errorf("ACRCloud = %+v", cfg.ACRCloud)
	}
	if cfg.ACRCloud.Timeout != 20*time.Second {
		t.Errorf("ACRCloud.Timeout = %v, want 20s", cfg.ACRCloud.Timeout)
	}
	if cfg.Lrclib.URL != "http://localhost:8080/api" {
		t.Errorf("Lrclib.URL = %q, want trailing slash trimmed", cfg.Lrclib.URL)
	}
	if cfg.Capture.Backend != "file" || cfg.Capture.File != "/tmp/clip.wav" {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	if cfg.Capture.Duration != 8*time.Second || cfg.Capture.Gain != 0.5 {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	if cfg.Sync.DriftThreshold != 2*time.Second || cfg.Sync.Smoothing != 0.5 {
		t.Errorf("Sync = %+v", cfg.Sync)
	}
	if !cfg.Notifications || !cfg.MPRIS {
		t.Error("notifications and mpris should be enabled")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[acrcloud]
access_key = "file-key"
access_secret = "file-secret"
`)
	t.Setenv("ACRCLOUD_ACCESS_KEY", "env-key")
	t.Setenv("LRCLIB_API_URL", "http://lyrics.test/api")
	t.Setenv("CHORUS_SERVER_URL", "http://chorus.test:3000/")
	t.Setenv("LASTFM_SESSION_KEY", "session")
	t.Setenv("CHORUS_UNRELATED", "ignored")

	cfg, err := load([]string{path})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.ACRCloud.AccessKey != "env-key" {
		t.Errorf("AccessKey = %q, want env-key", cfg.ACRCloud.AccessKey)
	}
	if cfg.ACRCloud.AccessSecret != "file-secret" {
		t.Errorf("AccessSecret = %q, want file-secret", cfg.ACRCloud.AccessSecret)
	}
	if cfg.Lrclib.URL != "http://lyrics.test/api" {
		t.Errorf("Lrclib.URL = %q", cfg.Lrclib.URL)
	}
	if cfg.Server.URL != "http://chorus.test:3000" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Lastfm.SessionKey != "session" {
		t.Errorf("Lastfm.SessionKey = %q", cfg.Lastfm.SessionKey)
	}
}

func TestLoad_EmptyEnvKeepsDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.ACRCloud.Host != "identify-us-west-2.acrcloud.com" {
		t.Errorf("empty ACRCLOUD_HOST replaced the default: %q", cfg.ACRCloud.Host)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[acrcloud\nhost = ")

	if _, err := load([]string{path}); err == nil {
		t.Error("expected error for malformed toml")
	}
}

func TestHasACRCloudConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name:     "key and secret set",
			config:   Config{ACRCloud: ACRCloudConfig{AccessKey: "k", AccessSecret: "s"}},
			expected: true,
		},
		{
			name:     "only key set",
			config:   Config{ACRCloud: ACRCloudConfig{AccessKey: "k"}},
			expected: false,
		},
		{
			name:     "neither set",
			config:   Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.config.HasACRCloudConfig(); result != tt.expected {
				t.Errorf("HasACRCloudConfig() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestHasLastfmConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name: "all set",
			config: Config{Lastfm: LastfmConfig{
				APIKey: "my-api-key", APISecret: "my-api-secret", SessionKey: "sk",
			}},
			expected: true,
		},
		{
			name: "missing session key",
			config: Config{Lastfm: LastfmConfig{
				APIKey: "my-api-key", APISecret: "my-api-secret",
			}},
			expected: false,
		},
		{
			name:     "only APIKey set",
			config:   Config{Lastfm: LastfmConfig{APIKey: "my-api-key"}},
			expected: false,
		},
		{
			name:     "neither set",
			config:   Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.config.HasLastfmConfig(); result != tt.expected {
				t.Errorf("HasLastfmConfig() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetSyncConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    SyncConfig
		expected SyncConfig
	}{
		{
			name:  "zero values get defaults",
			input: SyncConfig{},
			expected: SyncConfig{
				DriftThreshold: 3 * time.Second,
				Smoothing:      0.3,
				RetryDelay:     time.Second,
				EndGrace:       2 * time.Second,
				RequestTimeout: 15 * time.Second,
			},
		},
		{
			name: "smoothing above 1 gets default",
			input: SyncConfig{
				DriftThreshold: 5 * time.Second,
				Smoothing:      1.5,
			},
			expected: SyncConfig{
				DriftThreshold: 5 * time.Second,
				Smoothing:      0.3,
				RetryDelay:     time.Second,
				EndGrace:       2 * time.Second,
				RequestTimeout: 15 * time.Second,
			},
		},
		{
			name: "valid values unchanged",
			input: SyncConfig{
				DriftThreshold: 2 * time.Second,
				Smoothing:      0.5,
				RetryDelay:     3 * time.Second,
				EndGrace:       4 * time.Second,
				RequestTimeout: 5 * time.Second,
			},
			expected: SyncConfig{
				DriftThreshold: 2 * time.Second,
				Smoothing:      0.5,
				RetryDelay:     3 * time.Second,
				EndGrace:       4 * time.Second,
				RequestTimeout: 5 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Sync: tt.input}
			if result := cfg.GetSyncConfig(); result != tt.expected {
				t.Errorf("GetSyncConfig() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestGetCaptureConfig(t *testing.T) {
	cfg := Config{Capture: CaptureConfig{Backend: "alsa", Gain: -1}}
	result := cfg.GetCaptureConfig()

	if result.Backend != "pulse" {
		t.Errorf("Backend = %q, want pulse", result.Backend)
	}
	if result.Duration != 12*time.Second {
		t.Errorf("Duration = %v, want 12s", result.Duration)
	}
	if result.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", result.SampleRate)
	}
	if result.Gain != 0 {
		t.Errorf("Gain = %v, want 0", result.Gain)
	}
}

func TestClockParams(t *testing.T) {
	p := SyncConfig{DriftThreshold: 2 * time.Second, Smoothing: 0.5}.ClockParams()
	if p.DriftThreshold != 2*time.Second || p.Smoothing != 0.5 {
		t.Errorf("ClockParams() = %+v", p)
	}
}
