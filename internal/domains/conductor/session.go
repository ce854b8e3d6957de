package conductor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	librarydto "source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
	playerdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
	stagerdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/dto"
)

// maxFailedBatches stops a fill after this many batches in a row where no
// track could be staged.
const maxFailedBatches = 3

// entry is a track that made it into the player's playlist. Its playlist
// position is its index in session.entries.
type entry struct {
	track  *librarydto.Track
	staged *stagerdto.StagedTrack
}

// session is the state of one playback run.
type session struct {
	conductor *Conductor
	source    domains.TrackSource
	logger    *logrus.Entry

	bufferAhead int
	parallel    int

	entries   []entry
	current   int
	nextStage int
	exhausted bool
}

// Run plays the configured source until the player exits, the source runs
// dry while the player is idle, or ctx is cancelled.
func (c *Conductor) Run(ctx context.Context) error {
	source, err := c.library.OpenSource(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrConductor, ErrCantOpenSource, err)
	}

	defer func() {
		if err := source.Close(); err != nil {
			c.app.Logger().WithError(err).Warn("Failed to close track source")
		}
	}()

	config := c.app.Config()

	c.printHeader(source.Summary())

	err = c.player.Clear(ctx)
	if err != nil {
		c.app.Logger().WithError(err).Warn("Failed to clear the player's playlist")
	}

	s := &session{
		conductor:   c,
		source:      source,
		logger:      c.app.Logger(),
		bufferAhead: config.Playback.BufferAhead,
		parallel:    max(1, config.Playback.Parallel),
		current:     -1,
	}

	_, err = s.fill(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(config.Playback.PollIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		done, err := s.poll(ctx)
		if err != nil || done {
			return err
		}
	}
}

// poll checks the player once and reacts to a position change. It reports
// whether playback is over.
func (s *session) poll(ctx context.Context) (bool, error) {
	player := s.conductor.player

	if !player.Running() {
		s.logger.Debug("Player exited")

		return true, nil
	}

	position, ok, err := player.Position(ctx)
	if err != nil {
		s.logger.WithError(err).Debug("Failed to query playlist position")

		return false, nil
	}

	if !ok {
		appended, err := s.fill(ctx)
		if err != nil {
			return true, err
		}

		return !appended && s.exhausted, nil
	}

	if position == s.current {
		return false, nil
	}

	s.current = position

	if position < len(s.entries) {
		s.source.Played(s.entries[position].track)
		s.conductor.stager.CleanFinished(s.entries[position].staged.Index)
	}

	s.conductor.printReport(ctx, s.entryAt(position))

	_, err = s.fill(ctx)
	if err != nil {
		return true, err
	}

	return false, nil
}

func (s *session) entryAt(position int) *entry {
	if position < 0 || position >= len(s.entries) {
		return nil
	}

	return &s.entries[position]
}

// fill stages and loads tracks until bufferAhead of them follow the current
// one. Staging runs in parallel; tracks are loaded in source order. Tracks
// that fail to stage are skipped.
func (s *session) fill(ctx context.Context) (bool, error) {
	appended := false
	failedBatches := 0

	for !s.exhausted && len(s.entries)-1 < s.current+s.bufferAhead {
		needed := s.current + s.bufferAhead - (len(s.entries) - 1)

		batch, err := s.nextBatch(ctx, needed)
		if err != nil {
			return appended, err
		}

		if len(batch) == 0 {
			break
		}

		staged, err := s.stage(ctx, batch)
		if err != nil {
			return appended, err
		}

		loaded := 0

		for i, track := range batch {
			if staged[i] == nil {
				continue
			}

			mode := playerdto.LoadAppendPlay
			if len(s.entries) == 0 {
				mode = playerdto.LoadReplace
			}

			err = s.conductor.player.Load(ctx, staged[i].StagedPath, mode)
			if err != nil {
				return appended, fmt.Errorf("%w: %w (%w)", ErrConductor, ErrCantLoadTrack, err)
			}

			s.entries = append(s.entries, entry{track: track, staged: staged[i]})
			loaded++
			appended = true
		}

		if loaded > 0 {
			failedBatches = 0

			continue
		}

		failedBatches++
		if failedBatches >= maxFailedBatches {
			s.logger.Warn("Giving up on filling the queue, nothing could be staged")

			break
		}
	}

	return appended, nil
}

func (s *session) nextBatch(ctx context.Context, needed int) ([]*librarydto.Track, error) {
	batch := make([]*librarydto.Track, 0, needed)

	for range needed {
		track, err := s.source.Next(ctx)
		if err != nil {
			return nil, err
		}

		if track == nil {
			s.exhausted = true

			break
		}

		batch = append(batch, track)
	}

	return batch, nil
}

// stage prepares batch concurrently. Failed tracks leave a nil slot.
func (s *session) stage(ctx context.Context, batch []*librarydto.Track) ([]*stagerdto.StagedTrack, error) {
	staged := make([]*stagerdto.StagedTrack, len(batch))
	first := s.nextStage
	s.nextStage += len(batch)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallel)

	for i, track := range batch {
		group.Go(func() error {
			prepared, err := s.conductor.stager.PrepareTrack(groupCtx, first+i, track.Path)
			if err == nil {
				staged[i] = prepared

				return nil
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			s.logger.WithError(err).WithField("track", track.Path).Warn("Failed to stage track, skipping it")

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConductor, err)
	}

	return staged, nil
}
