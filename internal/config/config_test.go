//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
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
			input:    "~/cache",
			expected: filepath.Join(home, "cache"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/.cache/calliope/lookups",
			expected: filepath.Join(home, ".cache", "calliope", "lookups"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/cache/calliope",
			expected: "/var/cache/calliope",
		},
		{
			name:     "relative path unchanged",
			input:    "cache/calliope",
			expected: "cache/calliope",
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

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	// Last path should be the local file
	if paths[1] != "calliope.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "calliope.toml")
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "calliope", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
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
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Export.DefaultFormat != "xspf" {
		t.Errorf("DefaultFormat = %q, want xspf", cfg.Export.DefaultFormat)
	}
	if cfg.MusicBrainz.BaseURL != DefaultMusicBrainzURL {
		t.Errorf("BaseURL = %q, want %q", cfg.MusicBrainz.BaseURL, DefaultMusicBrainzURL)
	}
	if len(cfg.Sync.AllowFormats) != 1 || cfg.Sync.AllowFormats[0] != "all" {
		t.Errorf("AllowFormats = %v, want [all]", cfg.Sync.AllowFormats)
	}
	if cfg.Sync.FolderStructure != "source" {
		t.Errorf("FolderStructure = %q, want source", cfg.Sync.FolderStructure)
	}
	if cfg.CacheDir != "" {
		t.Errorf("CacheDir = %q, want empty", cfg.CacheDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_Values(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	cfg, err := Load(writeConfig(t, `
cache_dir = "~/lookups"
log_level = "debug"

[export]
default_format = "m3u"

[lastfm]
api_key = "key"
api_secret = "secret"
user = "sam"

[musicbrainz]
base_url = "http://localhost:5000/ws/2/"

[sync]
allow_formats = ["mp3", "ogg"]
folder_structure = "hierarchical"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CacheDir != filepath.Join(home, "lookups") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Export.DefaultFormat != "m3u" {
		t.Errorf("DefaultFormat = %q", cfg.Export.DefaultFormat)
	}
	if cfg.Lastfm.User != "sam" || !cfg.HasLastfmConfig() {
		t.Errorf("Lastfm = %+v", cfg.Lastfm)
	}
	if cfg.MusicBrainz.BaseURL != "http://localhost:5000/ws/2" {
		t.Errorf("BaseURL = %q, want trailing slash removed", cfg.MusicBrainz.BaseURL)
	}
	if len(cfg.Sync.AllowFormats) != 2 || cfg.Sync.AllowFormats[1] != "ogg" {
		t.Errorf("AllowFormats = %v", cfg.Sync.AllowFormats)
	}
	if cfg.Sync.FolderStructure != "hierarchical" {
		t.Errorf("FolderStructure = %q", cfg.Sync.FolderStructure)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing explicit file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") },
		},
		{
			name: "malformed toml",
			path: func(t *testing.T) string { return writeConfig(t, "[export\ndefault_format =") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	if err := os.WriteFile("calliope.toml", []byte("[export]\ndefault_format = \"cue\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.DefaultFormat != "cue" {
		t.Errorf("DefaultFormat = %q, want cue", cfg.Export.DefaultFormat)
	}
}

func TestLoad_LocalOverridesUser(t *testing.T) {
	t.Chdir(t.TempDir())
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	userDir := filepath.Join(configHome, "calliope")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	user := "[export]\ndefault_format = \"cue\"\n[lastfm]\nuser = \"sam\"\n"
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte(user), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("calliope.toml", []byte("[export]\ndefault_format = \"jspf\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.DefaultFormat != "jspf" {
		t.Errorf("DefaultFormat = %q, want jspf", cfg.Export.DefaultFormat)
	}
	if cfg.Lastfm.User != "sam" {
		t.Errorf("User = %q, want sam from the user file", cfg.Lastfm.User)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "every folder structure", modify: func(c *Config) { c.Sync.FolderStructure = "single" }},
		{name: "unknown export format", modify: func(c *Config) { c.Export.DefaultFormat = "wpl" }, wantErr: true},
		{name: "unknown folder structure", modify: func(c *Config) { c.Sync.FolderStructure = "tree" }, wantErr: true},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "known log level", modify: func(c *Config) { c.LogLevel = "warn" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
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
		{"both set", Config{Lastfm: LastfmConfig{APIKey: "k", APISecret: "s"}}, true},
		{"only key", Config{Lastfm: LastfmConfig{APIKey: "k"}}, false},
		{"only secret", Config{Lastfm: LastfmConfig{APISecret: "s"}}, false},
		{"empty", Config{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.HasLastfmConfig(); got != tt.expected {
				t.Errorf("HasLastfmConfig() = %v, want %v", got, tt.expected)
			}
		})
	}
}
