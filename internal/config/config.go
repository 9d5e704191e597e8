package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/calliope/internal/export"
	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/transfer"
)

const (
	appName       = "calliope"
	localFileName = "calliope.toml"

	// DefaultExportFormat is used by export when no --format is given.
	DefaultExportFormat = "xspf"
	// DefaultMusicBrainzURL is the public MusicBrainz web service.
	DefaultMusicBrainzURL = "https://musicbrainz.org/ws/2"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	CacheDir string `koanf:"cache_dir"` // empty means the XDG cache dir
	LogLevel string `koanf:"log_level"` // debug, info, warn or error

	Export      ExportConfig      `koanf:"export"`
	Lastfm      LastfmConfig      `koanf:"lastfm"`
	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`
	Sync        SyncConfig        `koanf:"sync"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	DefaultFormat string `koanf:"default_format"`
}

// LastfmConfig holds Last.fm API credentials.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	User      string `koanf:"user"` // default user for top-artists
}

// MusicBrainzConfig holds MusicBrainz-related configuration.
type MusicBrainzConfig struct {
	BaseURL string `koanf:"base_url"`
}

// SyncConfig holds the defaults of the sync command.
type SyncConfig struct {
	AllowFormats    []string `koanf:"allow_formats"`    // extensions copied as-is, or "all"
	FolderStructure string   `koanf:"folder_structure"` // source, flat, hierarchical or single
}

// Load reads the configuration. With an explicit path only that file is
// read and it must exist; otherwise the user file and ./calliope.toml are
// read when present, the local file winning.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		for _, p := range getConfigPaths() {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			logging.Debug("config: loading %s", p)
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %s: %w", p, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no file sets anything.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.CacheDir = expandPath(c.CacheDir)
	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = DefaultExportFormat
	}
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = DefaultMusicBrainzURL
	}
	c.MusicBrainz.BaseURL = strings.TrimSuffix(c.MusicBrainz.BaseURL, "/")
	if len(c.Sync.AllowFormats) == 0 {
		c.Sync.AllowFormats = []string{"all"}
	}
	if c.Sync.FolderStructure == "" {
		c.Sync.FolderStructure = string(transfer.FolderStructureSource)
	}
}

// Validate rejects values the commands can't use.
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.Export.DefaultFormat); err != nil {
		return fmt.Errorf("%w: export.default_format: %w", ErrInvalid, err)
	}
	if _, err := transfer.ParseFolderStructure(c.Sync.FolderStructure); err != nil {
		return fmt.Errorf("%w: sync.folder_structure: %w", ErrInvalid, err)
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("%w: log_level: unknown level %q", ErrInvalid, c.LogLevel)
		}
	}
	return nil
}

// HasLastfmConfig returns true if Last.fm credentials are configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/calliope/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./calliope.toml (pwd, highest priority)
		localFileName,
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
