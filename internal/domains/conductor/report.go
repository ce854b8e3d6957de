package conductor

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const (
	noGainReport   = "(no RG track gain reported)"
	noCoverReport  = "[ ] no images found"
	reportRuleSize = 40
)

var (
	gainColor = color.New(color.FgYellow)
	artColor  = color.New(color.FgCyan)
)

// formatReport renders what is known about the track that just started.
func formatReport(gain, source, covers string) string {
	if gain == "" || gain == "null" {
		gain = noGainReport
	}

	if covers == "" {
		covers = noCoverReport
	}

	return fmt.Sprintf(
		"\n%s ReplayGain[track]: %s | src: %s\n%s candidates:\n%s\n%s\n",
		gainColor.Sprint("[RG]"), gain, source,
		artColor.Sprint("[ART]"), covers,
		strings.Repeat("-", reportRuleSize),
	)
}

func (c *Conductor) printReport(ctx context.Context, current *entry) {
	gain, err := c.player.ReplayGain(ctx)
	if err != nil {
		c.app.Logger().WithError(err).Debug("Failed to query ReplayGain")
	}

	source, covers := "unknown", ""

	if current != nil {
		source = c.library.DisplayPath(current.track.Path)
		covers = current.staged.CoverReport()
	}

	if path, err := c.player.CurrentPath(ctx); err == nil {
		c.app.Logger().WithFields(logrus.Fields{
			"playing": path,
			"source":  source,
		}).Debug("Track changed")
	}

	fmt.Fprint(c.out, formatReport(gain, source, covers))
}
