package commands

import (
	"github.com/spf13/cobra"
)

const rootExample = `  mpvtunes --random-mode=full-library --library ~/Music
  mpvtunes --album ~/Music/Album --normalize
  mpvtunes --playlist ~/party.m3u --mpv-additional-args '--volume=60 --no-video'`

// NewRootCommand builds the mpvtunes command tree. The root command plays.
func NewRootCommand() *cobra.Command {
	options := new(playOptions)

	cmd := &cobra.Command{
		Use:           "mpvtunes",
		Short:         "Play a music library, album or playlist through mpv with prepared covers and ReplayGain.",
		Example:       rootExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.Context(), options)
		},
	}

	options.bind(cmd.Flags())

	cmd.AddCommand(newSendKeyCommand(), newCoversCommand())

	return cmd
}
