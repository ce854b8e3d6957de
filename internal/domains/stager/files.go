package stager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/dto"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/models"
)

// PrepareTrack copies sourcePath into <root>/<index>/, cleans its tags,
// optionally adds ReplayGain and installs the selected cover next to it.
// Tag cleanup and cover failures only degrade the result.
func (s *Stager) PrepareTrack(ctx context.Context, index int, sourcePath string) (*dto.StagedTrack, error) {
	if item, ok := s.stagedItem(index); ok && item.SourcePath == sourcePath {
		return models.StagedTrackModelToDTO(item), nil
	}

	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToGetSourceFile, err)
	}

	// Register in the queue
	select {
	case s.transcoder.QueueChannel() <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrStager, ctx.Err())
	}

	defer func() {
		<-s.transcoder.QueueChannel()
	}()

	stageDir := filepath.Join(s.root, strconv.Itoa(index))
	stagedPath := filepath.Join(stageDir, filepath.Base(sourcePath))

	size, err := copyAudio(sourcePath, stagedPath, sourceInfo.Mode().Perm())
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToCopySourceFile, err)
	}

	logger := s.app.Logger().WithFields(logrus.Fields{
		"index":  index,
		"source": sourcePath,
	})

	for _, strip := range []func(context.Context, string) error{
		s.transcoder.StripID3,
		s.transcoder.StripEmbeddedArt,
		s.transcoder.StripReplayGain,
	} {
		err = strip(ctx, stagedPath)
		if err != nil {
			logger.WithError(err).Debug("Tag cleanup skipped")
		}
	}

	item := &models.StagedTrack{
		Index:      index,
		SourcePath: sourcePath,
		StagedPath: stagedPath,
		StageDir:   stageDir,
		Size:       size,
	}

	if s.app.Config().Playback.Normalize {
		loudness, err := s.transcoder.AddReplayGain(ctx, stagedPath)
		if err == nil {
			item.Loudness = loudness
		}
	}

	selection, err := s.coverArt.SelectForTrack(ctx, sourcePath, stageDir)
	if err != nil {
		logger.WithError(err).Warn("Cover selection failed")
	} else {
		item.Cover = selection

		item.CoverPath, err = s.coverArt.Install(ctx, selection, stageDir)
		if err != nil {
			logger.WithError(err).Warn("Cover installation failed")
		}
	}

	item.Prepared = time.Now().UTC()

	s.itemsMutex.Lock()
	s.items[index] = item
	s.itemsMutex.Unlock()

	logger.WithFields(logrus.Fields{
		"staged": stagedPath,
		"cover":  item.CoverPath,
	}).Debug("Track staged")

	return models.StagedTrackModelToDTO(item), nil
}

// StagedTrack returns a previously prepared track that was not cleaned yet.
func (s *Stager) StagedTrack(index int) (*dto.StagedTrack, bool) {
	item, ok := s.stagedItem(index)
	if !ok {
		return nil, false
	}

	return models.StagedTrackModelToDTO(item), true
}

func (s *Stager) stagedItem(index int) (*models.StagedTrack, bool) {
	s.itemsMutex.RLock()
	defer s.itemsMutex.RUnlock()

	item, ok := s.items[index]

	return item, ok
}

func copyAudio(sourcePath, destinationPath string, mode os.FileMode) (int64, error) {
	err := os.MkdirAll(filepath.Dir(destinationPath), 0o755)
	if err != nil {
		return 0, err
	}

	in, err := os.Open(sourcePath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(destinationPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode|0o200)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()

		return 0, err
	}

	return size, out.Close()
}
