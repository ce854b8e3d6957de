package commands

import (
	"fmt"
	"os"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

const fullLibraryMode = "full-library"

const modeRequired = "One mode is required: --random-mode=full-library, --album, or --playlist"

// playOptions are the command line overrides of the play command.
type playOptions struct {
	configPath string

	randomMode string
	album      string
	playlist   string
	library    string

	normalize           bool
	additionalArgs      string
	persistRecentAlbums bool
	artDebug            bool

	backend    string
	mpdAddress string
	logLevel   string
}

func (o *playOptions) bind(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "", "Path to the configuration file")
	flags.StringVar(&o.randomMode, "random-mode", "", "Random playback over the library (only full-library is supported)")
	flags.StringVar(&o.album, "album", "", "Play every track of an album directory in order")
	flags.StringVar(&o.playlist, "playlist", "", "Play an .m3u, .m3u8, .pls or .cue playlist")
	flags.StringVar(&o.library, "library", "", "Music library root")
	flags.BoolVar(&o.normalize, "normalize", false, "Add ReplayGain track tags and let the player normalize loudness")
	flags.StringVar(&o.additionalArgs, "mpv-additional-args", "", "Extra mpv arguments, split like a shell would")
	flags.BoolVar(&o.persistRecentAlbums, "persist-recent-albums", false, "Remember recently played albums between runs")
	flags.BoolVar(&o.artDebug, "art-debug", false, "Log every cover candidate with its features")
	flags.StringVar(&o.backend, "player", "", "Player backend: mpv or mpd")
	flags.StringVar(&o.mpdAddress, "mpd-address", "", "MPD address (host:port or socket path)")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// apply validates the options and writes them over config.
func (o *playOptions) apply(config *configuration.Config) error {
	err := o.applyMode(config)
	if err != nil {
		return err
	}

	if o.library != "" {
		config.Paths.Library = o.library
	}

	err = checkPaths(config)
	if err != nil {
		return err
	}

	if o.additionalArgs != "" {
		args, err := shlex.Split(o.additionalArgs)
		if err != nil {
			return usageError("Failed to parse --mpv-additional-args: %v", err)
		}

		config.Player.AdditionalArgs = args
	}

	if o.normalize {
		config.Playback.Normalize = true
	}

	if o.persistRecentAlbums {
		config.Library.PersistRecentAlbums = true
	}

	if o.artDebug {
		config.Covers.Debug = true
	}

	if o.backend != "" {
		config.Player.Backend = o.backend
	}

	if o.mpdAddress != "" {
		config.Player.MPDAddress = o.mpdAddress
	}

	if o.logLevel != "" {
		err = config.LogLevel.UnmarshalText([]byte(o.logLevel))
		if err != nil {
			return usageError("Unsupported log level: %s", o.logLevel)
		}
	}

	return config.Validate()
}

// applyMode picks the mode from the flags. Without mode flags the configured
// mode is kept as long as it names what to play.
func (o *playOptions) applyMode(config *configuration.Config) error {
	given := 0

	if o.randomMode != "" {
		if o.randomMode != fullLibraryMode {
			return usageError("Unsupported random mode: %s", o.randomMode)
		}

		config.Mode.Kind = configuration.ModeRandom
		given++
	}

	if o.album != "" {
		config.Mode.Kind, config.Mode.Album = configuration.ModeAlbum, o.album
		given++
	}

	if o.playlist != "" {
		config.Mode.Kind, config.Mode.Playlist = configuration.ModePlaylist, o.playlist
		given++
	}

	switch {
	case given > 1:
		return usageError(modeRequired)
	case given == 1:
		return nil
	}

	switch config.Mode.Kind {
	case configuration.ModeAlbum:
		if config.Mode.Album != "" {
			return nil
		}
	case configuration.ModePlaylist:
		if config.Mode.Playlist != "" {
			return nil
		}
	case configuration.ModeRandom:
		if config.Paths.Library != "" || o.library != "" {
			return nil
		}
	}

	return usageError(modeRequired)
}

func checkPaths(config *configuration.Config) error {
	library := config.Paths.Library

	switch config.Mode.Kind {
	case configuration.ModeRandom:
		if library == "" {
			return usageError("--library is required for --random-mode=full-library")
		}

		if !isDir(library) {
			return usageError("Library path not found: %s", library)
		}
	case configuration.ModeAlbum:
		if !isDir(config.Mode.Album) {
			return usageError("Album directory not found: %s", config.Mode.Album)
		}

		if library != "" && !isDir(library) {
			return usageError("Library path not found: %s", library)
		}
	case configuration.ModePlaylist:
		info, err := os.Stat(config.Mode.Playlist)
		if err != nil || !info.Mode().IsRegular() {
			return usageError("Playlist file not found: %s", config.Mode.Playlist)
		}

		if !formats.IsPlaylist(config.Mode.Playlist) {
			return usageError("Unsupported playlist extension: %s", formats.Extension(config.Mode.Playlist))
		}
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}
