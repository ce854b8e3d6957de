package coverart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

var (
	_ domains.CoverArt = new(CoverArt)
	_ domains.Domain   = new(CoverArt)
)

type CoverArt struct {
	app *application.App

	library    domains.Library
	transcoder domains.Transcoder

	settings  Settings
	collector *Collector
	analyzer  *Analyzer
	installer *Installer
}

func New(app *application.App) *CoverArt {
	return &CoverArt{
		app:      app,
		settings: NewSettings(app.Config().Covers),
	}
}

func (c *CoverArt) ConnectDependencies() error {
	library, ok := c.app.RetrieveDomain(domains.LibraryName).(domains.Library)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrCoverArt, ErrConnectDependencies,
			"library domain interface conversion failed",
		)
	}

	transcoder, ok := c.app.RetrieveDomain(domains.TranscoderName).(domains.Transcoder)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrCoverArt, ErrConnectDependencies,
			"transcoder domain interface conversion failed",
		)
	}

	c.library = library
	c.transcoder = transcoder

	c.collector = NewCollector(
		ChainExtractor{TagExtractor{}, TranscoderExtractor{Transcoder: transcoder}},
		c.app.Logger(),
	)
	c.analyzer = NewAnalyzer(
		ChainProber{DecodeProber{}, TranscoderProber{Transcoder: transcoder}},
		c.settings,
	)
	c.installer = NewInstaller(
		ChainConverter{DecodeConverter{}, TranscoderConverter{Transcoder: transcoder}},
	)

	return nil
}

func (c *CoverArt) Start() error {
	return nil
}

// SelectForTrack collects, analyzes and ranks the cover candidates of track.
// The embedded picture, if any, is extracted into workDir and deleted again
// unless it wins.
func (c *CoverArt) SelectForTrack(ctx context.Context, track, workDir string) (*dto.Selection, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCoverArt, err)
	}

	trackPath, err := filepath.Abs(track)
	if err != nil {
		trackPath = filepath.Clean(track)
	}

	trackDir := filepath.Dir(trackPath)
	albumRoot := c.library.AlbumRootForTrack(trackPath)
	multiDisc := IsMultiDisc(trackDir, albumRoot)

	baseRoot := albumRoot
	if baseRoot == "" {
		baseRoot = trackDir
	}

	paths, embedded := c.collector.Collect(ctx, CollectRequest{
		TrackDir:      trackDir,
		AlbumRoot:     albumRoot,
		MultiDisc:     multiDisc,
		AudioSource:   trackPath,
		ExtractionDir: workDir,
	})

	candidates, lines := c.analyzer.Analyze(ctx, AnalyzeRequest{
		Paths:        paths,
		EmbeddedPath: embedded,
		Track:        trackPath,
		AlbumRoot:    albumRoot,
		TrackDir:     trackDir,
		BaseRoot:     baseRoot,
		Display:      c.library.DisplayPath,
	})

	winner, meta, report := Select(candidates, lines, c.settings)

	if embedded != "" && (winner == nil || winner.Path != embedded) {
		_ = os.Remove(embedded)
	}

	selection := &dto.Selection{
		Track:        trackPath,
		Candidates:   candidates,
		DebugLines:   lines,
		EmbeddedPath: embedded,
		Winner:       winner,
		Meta:         meta,
		Report:       report,
	}

	if c.settings.Debug {
		c.logSelection(selection)
	}

	return selection, nil
}

// Install places the selected cover into stageDir. It is a no-op returning
// an empty path when nothing was selected.
func (c *CoverArt) Install(ctx context.Context, selection *dto.Selection, stageDir string) (string, error) {
	if selection == nil || selection.Winner == nil {
		return "", nil
	}

	installed, err := c.installer.Install(ctx, selection.Winner.Path, stageDir)
	if err != nil {
		return "", err
	}

	c.app.Logger().WithFields(logrus.Fields{
		"cover":     c.library.DisplayPath(selection.Winner.Path),
		"installed": installed,
	}).Debug("Installed cover art")

	return installed, nil
}

func (c *CoverArt) logSelection(selection *dto.Selection) {
	logger := c.app.Logger().WithField("track", c.library.DisplayPath(selection.Track))

	logger.WithField("candidates", len(selection.DebugLines)).Info("[ARTDBG] cover candidates")

	for _, line := range selection.DebugLines {
		logger.Info("[ARTDBG]   " + line)
	}

	if selection.Winner == nil {
		logger.Info("[ARTDBG] chosen: none")

		return
	}

	logger.WithFields(logrus.Fields{
		"source": selection.Winner.SourceType,
		"path":   c.library.DisplayPath(selection.Winner.Path),
	}).Info("[ARTDBG] chosen")
}
