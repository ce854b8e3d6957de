package domains

import (
	"context"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
)

const LibraryName = "library"

type Library interface {
	AlbumRootForTrack(track string) string
	DisplayRoot() string
	DisplayPath(path string) string
	OpenSource(ctx context.Context) (TrackSource, error)
}

// TrackSource yields the tracks to play in order. Next returns nil when the
// source is exhausted.
type TrackSource interface {
	Next(ctx context.Context) (*dto.Track, error)
	Played(track *dto.Track)
	Summary() dto.Summary
	Close() error
}
