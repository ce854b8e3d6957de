package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

const (
	configEnv       = "MPVTUNES_CONFIG"
	stagingEnv      = "MPVTUNES_TMPDIR"
	artDebugEnv     = "ART_DEBUG"
	defaultSubdir   = "mpvtunes"
	defaultFilename = "config.yaml"
)

const (
	ModeRandom   = "random"
	ModeAlbum    = "album"
	ModePlaylist = "playlist"
)

type Config struct {
	Mode     Mode         `yaml:"mode"`
	Paths    Paths        `yaml:"paths"`
	Player   Player       `yaml:"player"`
	Playback Playback     `yaml:"playback"`
	Covers   Covers       `yaml:"covers"`
	Library  Library      `yaml:"library"`
	LogLevel logrus.Level `yaml:"log_level"`
}

// Mode selects what gets played. Album and Playlist are only read for their
// respective kinds.
type Mode struct {
	Kind     string `yaml:"kind"`
	Album    string `yaml:"album"`
	Playlist string `yaml:"playlist"`
}

type Paths struct {
	Library string `yaml:"library"`
	Staging string `yaml:"staging"`
}

type Player struct {
	Backend        string   `yaml:"backend"`
	Binary         string   `yaml:"binary"`
	SocketDir      string   `yaml:"socket_dir"`
	MPDAddress     string   `yaml:"mpd_address"`
	MPDPassword    string   `yaml:"mpd_password"`
	AdditionalArgs []string `yaml:"additional_args"`
}

type Playback struct {
	BufferAhead         int  `yaml:"buffer_ahead"`
	PollIntervalSeconds int  `yaml:"poll_interval_seconds"`
	Normalize           bool `yaml:"normalize"`
	Parallel            int  `yaml:"parallel"`
}

// Covers holds the cover selection thresholds.
type Covers struct {
	TinyFrontArea       int     `yaml:"tiny_front_area"`
	AreaClosenessPct    int     `yaml:"area_closeness_pct"`
	SquarishTolerance   float64 `yaml:"squarish_tolerance"`
	OverlapThresholdPct int     `yaml:"overlap_threshold_pct"`
	Debug               bool    `yaml:"debug"`
}

type Library struct {
	AlbumSpreadThreshold  int    `yaml:"album_spread_threshold"`
	RecentAlbumsMin       int    `yaml:"recent_albums_min"`
	RecentAlbumsMax       int    `yaml:"recent_albums_max"`
	RecentAlbumsPct       int    `yaml:"recent_albums_pct"`
	RescanIntervalSeconds int    `yaml:"rescan_interval_seconds"`
	PersistRecentAlbums   bool   `yaml:"persist_recent_albums"`
	RecentAlbumsCache     string `yaml:"recent_albums_cache"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Mode: Mode{Kind: ModeRandom},
		Player: Player{
			Backend:    "mpv",
			Binary:     "mpv",
			SocketDir:  "/tmp",
			MPDAddress: "localhost:6600",
		},
		Playback: Playback{
			BufferAhead:         1,
			PollIntervalSeconds: 5,
			Parallel:            2,
		},
		Covers: Covers{
			TinyFrontArea:       200_000,
			AreaClosenessPct:    75,
			SquarishTolerance:   0.13,
			OverlapThresholdPct: 50,
		},
		Library: Library{
			AlbumSpreadThreshold:  50,
			RecentAlbumsMin:       20,
			RecentAlbumsMax:       200,
			RecentAlbumsPct:       10,
			RescanIntervalSeconds: 3600,
		},
		LogLevel: logrus.InfoLevel,
	}
}

// New loads the configuration. An explicit path (or MPVTUNES_CONFIG) must
// exist; the default per-user path is optional.
func New(customPath string) (*Config, error) {
	path, explicit := customPath, customPath != ""
	if !explicit {
		if envPath, ok := os.LookupEnv(configEnv); ok && envPath != "" {
			path, explicit = envPath, true
		} else {
			path = defaultPath()
		}
	}

	config := Default()

	rawConfig, err := os.ReadFile(path)
	switch {
	case err == nil:
		err = yaml.Unmarshal(rawConfig, config)
		if err != nil {
			return nil, fmt.Errorf("%w: %w (%w)", ErrConfiguration, ErrCantParseConfigFile, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %w (%w)", ErrConfiguration, ErrCantReadConfigFile, err)
	}

	config.applyEnvironment()

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnvironment() {
	if staging, ok := os.LookupEnv(stagingEnv); ok && staging != "" {
		c.Paths.Staging = staging
	}

	if os.Getenv(artDebugEnv) == "1" {
		c.Covers.Debug = true
	}
}

// Validate checks values that would break the playback loop.
func (c *Config) Validate() error {
	switch c.Mode.Kind {
	case ModeRandom, ModeAlbum, ModePlaylist:
	default:
		return fmt.Errorf("%w: %w (%s)", ErrConfiguration, ErrUnknownMode, c.Mode.Kind)
	}

	switch c.Player.Backend {
	case "mpv", "mpd":
	default:
		return fmt.Errorf("%w: %w (%s)", ErrConfiguration, ErrUnknownPlayerBackend, c.Player.Backend)
	}

	if c.Playback.BufferAhead < 1 {
		return fmt.Errorf("%w: %w (buffer_ahead=%d)", ErrConfiguration, ErrInvalidValue, c.Playback.BufferAhead)
	}

	if c.Playback.PollIntervalSeconds < 1 {
		return fmt.Errorf(
			"%w: %w (poll_interval_seconds=%d)",
			ErrConfiguration, ErrInvalidValue, c.Playback.PollIntervalSeconds,
		)
	}

	if c.Playback.Parallel < 1 {
		c.Playback.Parallel = 1
	}

	if c.Covers.AreaClosenessPct <= 0 || c.Covers.AreaClosenessPct > 100 {
		return fmt.Errorf(
			"%w: %w (area_closeness_pct=%d)",
			ErrConfiguration, ErrInvalidValue, c.Covers.AreaClosenessPct,
		)
	}

	return nil
}

func defaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(defaultSubdir, defaultFilename)
		}

		base = filepath.Join(home, ".config")
	}

	return filepath.Join(base, defaultSubdir, defaultFilename)
}
