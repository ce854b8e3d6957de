package library

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
)

var (
	_ domains.TrackSource = new(listSource)
	_ domains.TrackSource = new(spreadSource)
)

// listSource plays a fixed list of tracks once.
type listSource struct {
	tracks  []string
	next    int
	summary dto.Summary
}

func (s *listSource) Next(ctx context.Context) (*dto.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibrary, err)
	}

	if s.next >= len(s.tracks) {
		return nil, nil
	}

	track := &dto.Track{Path: s.tracks[s.next]}
	s.next++

	return track, nil
}

func (s *listSource) Played(*dto.Track) {}

func (s *listSource) Summary() dto.Summary {
	return s.summary
}

func (s *listSource) Close() error {
	return nil
}

// spreadSource picks one random track from a random album at a time and
// never runs out while the library has albums.
type spreadSource struct {
	planner *Planner
	cache   *recentCache
	logger  *logrus.Entry
}

func (s *spreadSource) Next(ctx context.Context) (*dto.Track, error) {
	if s.planner.MaybeRescan(ctx) {
		s.saveRecent()
	}

	album := s.planner.ChooseAlbum()
	if album == "" {
		return nil, nil
	}

	track := s.planner.ChooseTrack(album)
	if track == "" {
		return nil, nil
	}

	return &dto.Track{Path: track, Album: album}, nil
}

// Played records the album of a track that started playing.
func (s *spreadSource) Played(track *dto.Track) {
	if track == nil || track.Album == "" {
		return
	}

	s.planner.RecordPlayed(track.Album)
}

func (s *spreadSource) Summary() dto.Summary {
	return s.planner.Summary()
}

func (s *spreadSource) Close() error {
	return s.saveRecent()
}

func (s *spreadSource) saveRecent() error {
	if s.cache == nil {
		return nil
	}

	err := s.cache.Save(s.planner.Recent())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to persist recent albums")

		return err
	}

	return nil
}

func (l *Library) openRandom(ctx context.Context) (domains.TrackSource, error) {
	config := l.app.Config()

	if l.root == "" {
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrPathNotFound, "library is not set")
	}

	planner, err := NewPlanner(ctx, l.root, config.Library, l.random, l.now, l.app.Logger())
	if err != nil {
		return nil, err
	}

	if len(planner.albums.Albums) == 0 {
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrNoAudioFiles, l.root)
	}

	if !planner.Spread() {
		tracks := planner.ShuffledTracks()

		return &listSource{
			tracks:  tracks,
			summary: planner.Summary(),
		}, nil
	}

	source := &spreadSource{
		planner: planner,
		logger:  l.app.Logger(),
	}

	if config.Library.PersistRecentAlbums {
		source.cache = newRecentCache(recentCachePath(config.Library), l.app.Logger())
		source.cache.Load(planner)
	}

	return source, nil
}

func (l *Library) openAlbum(ctx context.Context, dir string) (domains.TrackSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibrary, err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrPathNotFound, dir)
	}

	tracks := findAudio(absolute(dir))
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrNoAudioFiles, dir)
	}

	return &listSource{
		tracks: tracks,
		summary: dto.Summary{
			Mode:  configuration.ModeAlbum,
			Path:  dir,
			Total: len(tracks),
		},
	}, nil
}

func (l *Library) openPlaylist(ctx context.Context, path string) (domains.TrackSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibrary, err)
	}

	tracks, err := ParsePlaylist(path, l.app.Logger())
	if err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrNoAudioFiles, path)
	}

	return &listSource{
		tracks: tracks,
		summary: dto.Summary{
			Mode:  configuration.ModePlaylist,
			Path:  path,
			Total: len(tracks),
		},
	}, nil
}
