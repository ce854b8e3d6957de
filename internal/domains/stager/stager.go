package stager

import (
	"fmt"
	"os"
	"sync"

	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/models"
)

var (
	_ domains.Stager    = new(Stager)
	_ domains.Domain    = new(Stager)
	_ domains.Stoppable = new(Stager)
)

type Stager struct {
	app *application.App

	transcoder domains.Transcoder
	coverArt   domains.CoverArt

	root        string
	itemsMutex  sync.RWMutex
	items       map[int]*models.StagedTrack
	lastCleaned int
}

func New(app *application.App) *Stager {
	return &Stager{
		app:         app,
		items:       make(map[int]*models.StagedTrack),
		lastCleaned: -1,
	}
}

func (s *Stager) ConnectDependencies() error {
	transcoder, ok := s.app.RetrieveDomain(domains.TranscoderName).(domains.Transcoder)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrStager, ErrConnectDependencies,
			"transcoder domain interface conversion failed",
		)
	}

	coverArt, ok := s.app.RetrieveDomain(domains.CoverArtName).(domains.CoverArt)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrStager, ErrConnectDependencies,
			"coverart domain interface conversion failed",
		)
	}

	s.transcoder = transcoder
	s.coverArt = coverArt

	return nil
}

// Start creates the staging root.
func (s *Stager) Start() error {
	root, err := createRoot(s.app.Config().Paths.Staging, hostRAMDisks(), s.app.Logger())
	if err != nil {
		return err
	}

	s.root = root

	s.app.Logger().WithField("root", root).Debug("Staging root created")

	return nil
}

// Stop removes the staging root with everything still in it.
func (s *Stager) Stop() error {
	if s.root == "" {
		return nil
	}

	s.itemsMutex.Lock()
	defer s.itemsMutex.Unlock()

	s.logStatsLocked("Removing staging root")

	err := os.RemoveAll(s.root)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToRemoveStage, err)
	}

	s.items = make(map[int]*models.StagedTrack)

	return nil
}

func (s *Stager) Root() string {
	return s.root
}
