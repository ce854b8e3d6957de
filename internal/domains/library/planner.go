package library

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/models"
)

// Planner chooses what to play in random mode. Large libraries rotate
// albums and keep a window of recently played albums out of the draw;
// small ones are a single shuffle.
type Planner struct {
	root     string
	settings configuration.Library
	random   *rand.Rand
	now      func() time.Time
	logger   *logrus.Entry

	albums     *models.AlbumMap
	spread     bool
	recentSize int
	recent     []string
	lastRescan time.Time
}

func NewPlanner(
	ctx context.Context, root string, settings configuration.Library,
	random *rand.Rand, now func() time.Time, logger *logrus.Entry,
) (*Planner, error) {
	albums, err := buildAlbumMap(ctx, root)
	if err != nil {
		return nil, err
	}

	planner := &Planner{
		root:       root,
		settings:   settings,
		random:     random,
		now:        now,
		logger:     logger,
		albums:     albums,
		spread:     len(albums.Albums) >= settings.AlbumSpreadThreshold,
		lastRescan: now(),
	}

	if planner.spread {
		planner.recentSize = RecentWindowSize(len(albums.Albums), settings)
	}

	return planner, nil
}

// RecentWindowSize is pct% of the albums clamped to [min, max], and never
// so large that every album is blocked.
func RecentWindowSize(totalAlbums int, settings configuration.Library) int {
	size := max(
		settings.RecentAlbumsMin,
		min(settings.RecentAlbumsMax, max(1, totalAlbums*settings.RecentAlbumsPct/100)),
	)

	if size >= totalAlbums {
		size = max(0, totalAlbums-1)
	}

	return size
}

func (p *Planner) Spread() bool {
	return p.spread
}

func (p *Planner) RecentSize() int {
	return p.recentSize
}

// Recent returns the recent albums, oldest first.
func (p *Planner) Recent() []string {
	return slices.Clone(p.recent)
}

// RecordPlayed appends album to the recent window, dropping the oldest
// entries beyond its size.
func (p *Planner) RecordPlayed(album string) {
	p.recent = append(p.recent, album)
	p.trimRecent()
}

func (p *Planner) trimRecent() {
	if overflow := len(p.recent) - p.recentSize; overflow > 0 {
		p.recent = slices.Delete(p.recent, 0, overflow)
	}
}

// ChooseAlbum picks a random album outside the recent window, or any album
// when the window covers them all. It returns an empty string for an empty
// library.
func (p *Planner) ChooseAlbum() string {
	if len(p.albums.Albums) == 0 {
		return ""
	}

	blocked := make(map[string]struct{}, len(p.recent))
	if p.recentSize > 0 {
		for _, album := range p.recent[max(0, len(p.recent)-p.recentSize):] {
			blocked[album] = struct{}{}
		}
	}

	candidates := make([]string, 0, len(p.albums.Albums))

	for _, album := range p.albums.Albums {
		if _, ok := blocked[album.Path]; !ok {
			candidates = append(candidates, album.Path)
		}
	}

	if len(candidates) == 0 {
		for _, album := range p.albums.Albums {
			candidates = append(candidates, album.Path)
		}
	}

	return candidates[p.random.IntN(len(candidates))]
}

// ChooseTrack picks a random track of album.
func (p *Planner) ChooseTrack(album string) string {
	entry, ok := p.albums.ByPath[album]
	if !ok || len(entry.Tracks) == 0 {
		return ""
	}

	return entry.Tracks[p.random.IntN(len(entry.Tracks))]
}

// ShuffledTracks returns every track of the library in random order.
func (p *Planner) ShuffledTracks() []string {
	tracks := make([]string, 0, p.albums.TotalTracks)

	for _, album := range p.albums.Albums {
		tracks = append(tracks, album.Tracks...)
	}

	p.random.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})

	return tracks
}

// MaybeRescan rebuilds the album map once the rescan interval has passed.
// Recent albums that disappeared are forgotten. It reports whether a rescan
// happened.
func (p *Planner) MaybeRescan(ctx context.Context) bool {
	interval := time.Duration(p.settings.RescanIntervalSeconds) * time.Second
	if interval <= 0 {
		return false
	}

	now := p.now()
	if now.Sub(p.lastRescan) < interval {
		return false
	}

	albums, err := buildAlbumMap(ctx, p.root)
	if err != nil {
		p.logger.WithError(err).Warn("Library rescan failed, keeping the previous album map")
		p.lastRescan = now

		return false
	}

	previous := p.albums

	p.albums = albums
	p.recent = slices.DeleteFunc(p.recent, func(album string) bool {
		return !albums.Contains(album)
	})
	p.lastRescan = now

	added, removed := 0, 0

	for _, album := range albums.Albums {
		if !previous.Contains(album.Path) {
			added++
		}
	}

	for _, album := range previous.Albums {
		if !albums.Contains(album.Path) {
			removed++
		}
	}

	delta := albums.TotalTracks - previous.TotalTracks
	if added != 0 || removed != 0 || delta != 0 {
		p.logger.WithFields(logrus.Fields{
			"albums":  len(albums.Albums),
			"added":   added,
			"removed": removed,
			"tracks":  albums.TotalTracks,
			"delta":   delta,
		}).Info("Library rescanned")
	}

	return true
}

func (p *Planner) Summary() dto.Summary {
	summary := dto.Summary{
		Mode:        configuration.ModeRandom,
		Path:        p.root,
		Total:       p.albums.TotalTracks,
		Albums:      len(p.albums.Albums),
		AlbumSpread: p.spread,
	}

	if p.spread {
		summary.RecentWindow = p.recentSize
		summary.RescanIntervalSeconds = p.settings.RescanIntervalSeconds
	}

	return summary
}
