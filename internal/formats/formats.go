// Package formats knows which file extensions mpvtunes treats as audio,
// images and playlists.
package formats

import (
	"path/filepath"
	"slices"
	"strings"
)

var (
	AudioExtensions    = []string{"flac", "mp3", "ogg", "opus", "m4a", "alac", "wav", "aiff", "wv"}
	ImageExtensions    = []string{"jpg", "jpeg", "png", "webp", "gif", "bmp", "tiff", "tif", "svg"}
	PlaylistExtensions = []string{"m3u", "m3u8", "pls", "cue"}
)

// Extension returns the lower-cased extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func IsAudio(path string) bool {
	return slices.Contains(AudioExtensions, Extension(path))
}

func IsImage(path string) bool {
	return slices.Contains(ImageExtensions, Extension(path))
}

func IsPlaylist(path string) bool {
	return slices.Contains(PlaylistExtensions, Extension(path))
}

func IsAudioExtension(ext string) bool {
	return slices.Contains(AudioExtensions, strings.ToLower(ext))
}
