package library

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

var (
	_ domains.Library = new(Library)
	_ domains.Domain  = new(Library)
)

type Library struct {
	app *application.App

	root        string
	displayRoot string

	random *rand.Rand
	now    func() time.Time
}

func New(app *application.App) *Library {
	return &Library{
		app:    app,
		random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
	}
}

func (l *Library) ConnectDependencies() error {
	return nil
}

// Start resolves the library and display roots for the configured mode.
func (l *Library) Start() error {
	config := l.app.Config()

	if config.Paths.Library != "" {
		l.root = absolute(config.Paths.Library)
	}

	switch config.Mode.Kind {
	case configuration.ModeRandom:
		l.displayRoot = l.root
	case configuration.ModeAlbum:
		l.displayRoot = absolute(config.Mode.Album)
	case configuration.ModePlaylist:
		l.displayRoot = filepath.Dir(absolute(config.Mode.Playlist))
	default:
		return fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrUnknownMode, config.Mode.Kind)
	}

	if l.displayRoot == "" {
		l.displayRoot = string(filepath.Separator)
	}

	return nil
}

// AlbumRootForTrack returns the top-level library directory that contains
// track, or an empty string when there is no library or track lies outside
// it.
func (l *Library) AlbumRootForTrack(track string) string {
	if l.root == "" {
		return ""
	}

	info, err := os.Stat(l.root)
	if err != nil || !info.IsDir() {
		return ""
	}

	trackPath := absolute(track)
	if !strings.HasPrefix(trackPath, l.root+string(filepath.Separator)) {
		return ""
	}

	first, _, _ := strings.Cut(strings.TrimPrefix(trackPath, l.root+string(filepath.Separator)), string(filepath.Separator))
	candidate := filepath.Join(l.root, first)

	info, err = os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return ""
	}

	return candidate
}

func (l *Library) DisplayRoot() string {
	return l.displayRoot
}

// DisplayPath renders path relative to the display root, "." for the root
// itself and unchanged when it lies elsewhere.
func (l *Library) DisplayPath(path string) string {
	return displayPath(path, l.displayRoot)
}

// OpenSource builds the track source for the configured mode.
func (l *Library) OpenSource(ctx context.Context) (domains.TrackSource, error) {
	config := l.app.Config()

	switch config.Mode.Kind {
	case configuration.ModeRandom:
		return l.openRandom(ctx)
	case configuration.ModeAlbum:
		return l.openAlbum(ctx, config.Mode.Album)
	case configuration.ModePlaylist:
		return l.openPlaylist(ctx, config.Mode.Playlist)
	default:
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrUnknownMode, config.Mode.Kind)
	}
}

func displayPath(path, root string) string {
	if path == "" {
		return ""
	}

	pathAbs := absolute(path)
	rootAbs := absolute(root)

	if pathAbs == rootAbs {
		return "."
	}

	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
