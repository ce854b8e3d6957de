package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/conductor"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder"
)

func runPlay(parent context.Context, options *playOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	app := application.New(ctx)

	err := app.InitConfig(options.configPath)
	if err != nil {
		return err
	}

	err = options.apply(app.Config())
	if err != nil {
		return err
	}

	app.InitLogger()

	app.Logger().Info("Starting mpvtunes...")

	app.RegisterDomain(domains.LibraryName, library.New(app))
	app.RegisterDomain(domains.TranscoderName, transcoder.New(app))
	app.RegisterDomain(domains.CoverArtName, coverart.New(app))
	app.RegisterDomain(domains.StagerName, stager.New(app))
	app.RegisterDomain(domains.PlayerName, player.New(app))
	app.RegisterDomain(domains.ConductorName, conductor.New(app))

	err = app.ConnectDependencies()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := app.StopDomains()
		if stopErr != nil {
			app.Logger().WithError(stopErr).Warn("Failed to clean up")
		}
	}()

	err = app.StartDomains()
	if err != nil {
		return err
	}

	// CTRL+C handler.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	defer signal.Stop(interrupt)

	go func() {
		select {
		case signalThing := <-interrupt:
			app.Logger().WithField("signal", signalThing.String()).
				Info("Got terminating signal, shutting down...")

			cancel()
		case <-ctx.Done():
		}
	}()

	app.Logger().Info("Started mpvtunes")

	conductorDomain, _ := app.RetrieveDomain(domains.ConductorName).(domains.Conductor)

	err = conductorDomain.Run(ctx)
	if err != nil {
		return err
	}

	app.Logger().Info("Playback finished")

	return nil
}
