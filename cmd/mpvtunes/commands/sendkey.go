package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player"
)

func newSendKeyCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "send-key {pause|next|prev} [SOCKET_GLOB]",
		Short: "Send a media key to every running mpv (default sockets: " + player.DefaultSocketGlob + ").",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			if debug {
				logger.SetLevel(logrus.DebugLevel)
			}

			pattern := ""
			if len(args) > 1 {
				pattern = args[1]
			}

			sent, err := player.SendKey(args[0], pattern, logrus.NewEntry(logger))
			if err != nil {
				return err
			}

			logger.WithField("sockets", sent).Debug("Key sent")

			if sent == 0 && debug {
				fmt.Fprintln(cmd.ErrOrStderr(), "No sockets found, nothing to do.")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Print which sockets were found and what went wrong")

	return cmd
}
