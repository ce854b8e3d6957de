package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/models"
	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

// buildAlbumMap treats every top-level directory of root that holds audio
// (at any depth) as an album.
func buildAlbumMap(ctx context.Context, root string) (*models.AlbumMap, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrPathNotFound, err)
	}

	albums := make([]*models.Album, 0, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLibrary, err)
		}

		path := filepath.Join(root, entry.Name())

		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}

		tracks := findAudio(path)
		if len(tracks) == 0 {
			continue
		}

		albums = append(albums, &models.Album{Path: path, Tracks: tracks})
	}

	return models.NewAlbumMap(albums), nil
}

// findAudio lists audio files under dir in lexical order. Unreadable
// subtrees are skipped.
func findAudio(dir string) []string {
	var tracks []string

	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if !entry.IsDir() && formats.IsAudio(path) {
			tracks = append(tracks, path)
		}

		return nil
	})

	slices.Sort(tracks)

	return tracks
}
