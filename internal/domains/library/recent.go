package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
)

const (
	recentCacheDir  = "mpvtunes"
	recentCacheFile = "recent_albums.json"
)

// recentCache persists the recent albums window between runs as a JSON list
// of album paths.
type recentCache struct {
	path   string
	logger *logrus.Entry
}

func newRecentCache(path string, logger *logrus.Entry) *recentCache {
	return &recentCache{path: path, logger: logger.WithField("cache", path)}
}

// recentCachePath is the configured path or the per-user cache location.
func recentCachePath(settings configuration.Library) string {
	if settings.RecentAlbumsCache != "" {
		return expandHome(settings.RecentAlbumsCache)
	}

	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "cache")
	}

	return filepath.Join(base, recentCacheDir, recentCacheFile)
}

// Load seeds the planner with the saved albums that still exist, trimmed to
// the current window size. Read problems are logged and ignored.
func (c *recentCache) Load(planner *Planner) {
	loaded, err := c.read()
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Info("Recent albums cache not found, it will be created on exit")

		return
	}

	if err != nil {
		c.logger.WithError(err).Warn("Failed to read recent albums cache")

		return
	}

	existing := make([]string, 0, len(loaded))

	for _, album := range loaded {
		if planner.albums.Contains(album) {
			existing = append(existing, album)
		}
	}

	kept := existing[max(0, len(existing)-planner.RecentSize()):]

	for _, album := range kept {
		planner.RecordPlayed(album)
	}

	c.logger.WithFields(logrus.Fields{
		"found":             len(loaded),
		"kept":              len(kept),
		"dropped_missing":   len(loaded) - len(existing),
		"trimmed_to_window": len(existing) - len(kept),
	}).Info("Loaded recent albums")
}

func (c *recentCache) read() ([]string, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var entries []any

	err = json.Unmarshal(raw, &entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantReadRecentAlbums, err)
	}

	albums := make([]string, 0, len(entries))

	for _, entry := range entries {
		if album, ok := entry.(string); ok {
			albums = append(albums, album)
		}
	}

	return albums, nil
}

// Save writes albums as an indented JSON list.
func (c *recentCache) Save(albums []string) error {
	err := os.MkdirAll(filepath.Dir(c.path), 0o755)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantWriteRecentAlbums, err)
	}

	if albums == nil {
		albums = []string{}
	}

	raw, err := json.MarshalIndent(albums, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantWriteRecentAlbums, err)
	}

	err = os.WriteFile(c.path, raw, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantWriteRecentAlbums, err)
	}

	c.logger.WithField("entries", len(albums)).Info("Saved recent albums")

	return nil
}

func expandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && path[1] == filepath.Separator
}
