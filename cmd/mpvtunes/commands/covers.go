package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart"
	coverartdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder"
)

// coversSummary closes the candidate dump.
type coversSummary struct {
	Track  string                 `json:"track"`
	Winner *coverartdto.Candidate `json:"winner"`
	Meta   string                 `json:"meta"`
}

func newCoversCommand() *cobra.Command {
	var configPath, libraryPath string

	cmd := &cobra.Command{
		Use:   "covers TRACK",
		Short: "Print the cover candidates of a track as JSON lines, the chosen one last.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCovers(cmd.Context(), cmd.OutOrStdout(), configPath, libraryPath, args[0])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&libraryPath, "library", "", "Music library root, used to find the album root")

	return cmd
}

func runCovers(ctx context.Context, out io.Writer, configPath, libraryPath, track string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(track)
	if err != nil || !info.Mode().IsRegular() {
		return usageError("Track not found: %s", track)
	}

	app := application.New(ctx)

	err = app.InitConfig(configPath)
	if err != nil {
		return err
	}

	config := app.Config()
	config.Mode = configuration.Mode{Kind: configuration.ModeAlbum, Album: filepath.Dir(track)}

	if libraryPath != "" {
		config.Paths.Library = libraryPath
	}

	app.InitLogger()

	app.RegisterDomain(domains.LibraryName, library.New(app))
	app.RegisterDomain(domains.TranscoderName, transcoder.New(app))
	app.RegisterDomain(domains.CoverArtName, coverart.New(app))

	err = app.ConnectDependencies()
	if err != nil {
		return err
	}

	err = app.StartDomains()
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "mpvtunes-covers-")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCantCreateWorkDir, err)
	}
	defer os.RemoveAll(workDir)

	coverArt, _ := app.RetrieveDomain(domains.CoverArtName).(domains.CoverArt)

	selection, err := coverArt.SelectForTrack(ctx, track, workDir)
	if err != nil {
		return err
	}

	return writeCovers(out, selection)
}

func writeCovers(out io.Writer, selection *coverartdto.Selection) error {
	encoder := json.NewEncoder(out)

	for _, candidate := range selection.Candidates {
		err := encoder.Encode(candidate)
		if err != nil {
			return err
		}
	}

	return encoder.Encode(coversSummary{
		Track:  selection.Track,
		Winner: selection.Winner,
		Meta:   selection.Meta,
	})
}
