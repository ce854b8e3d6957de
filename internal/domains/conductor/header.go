package conductor

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
)

const headerSeparator = "---"

var (
	frameColor = color.New(color.FgCyan)
	titleColor = color.New(color.FgMagenta)
)

// HumanInterval renders a rescan interval as "1h00m", "15m" or "off".
func HumanInterval(seconds int) string {
	if seconds <= 0 {
		return "off"
	}

	minutes := seconds / 60
	hours := minutes / 60
	minutes %= 60

	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}

	return fmt.Sprintf("%dm", minutes)
}

// headerLines lists the banner content. headerSeparator marks a rule.
func headerLines(summary dto.Summary, config *configuration.Config, endpoint string) []string {
	lines := []string{"🎵 mpvtunes 🎵", headerSeparator}

	switch summary.Mode {
	case configuration.ModeRandom:
		lines = append(lines, "💾 Library: "+summary.Path, "🔀 Mode: random")

		if summary.AlbumSpread {
			lines = append(lines, fmt.Sprintf(
				"🔁 I rotate albums, skip the last %d of %d, and look for new music every %s.",
				summary.RecentWindow, summary.Albums, HumanInterval(summary.RescanIntervalSeconds),
			))
		} else {
			lines = append(lines, fmt.Sprintf(
				"🎲 Single big shuffle (library has < %d albums).",
				config.Library.AlbumSpreadThreshold,
			))
		}

		lines = append(lines, fmt.Sprintf("💿 Albums: %d", summary.Albums))
	case configuration.ModeAlbum:
		lines = append(lines, "💾 Album: "+summary.Path, "🎯 Mode: album")
	default:
		lines = append(lines, "💾 Playlist: "+summary.Path, "📜 Mode: playlist")
	}

	lines = append(lines,
		fmt.Sprintf("Tracks: %d", summary.Total),
		headerSeparator,
		"Socket: "+endpoint,
		fmt.Sprintf("Buffer ahead: %d", config.Playback.BufferAhead),
	)

	if config.Playback.Normalize {
		return append(lines, "Normalize: enabled (ReplayGain track)")
	}

	return append(lines, "Normalize: disabled")
}

// renderBox frames lines in a double-line box. The first line is centred.
func renderBox(lines []string) string {
	width := 0

	for _, line := range lines {
		if line != headerSeparator {
			width = max(width, runewidth.StringWidth(line))
		}
	}

	var box strings.Builder

	box.WriteString(frameColor.Sprint("╔"+strings.Repeat("═", width+2)+"╗") + "\n")

	for i, line := range lines {
		if line == headerSeparator {
			box.WriteString(frameColor.Sprint("╟"+strings.Repeat("─", width+2)+"╢") + "\n")

			continue
		}

		padding := width - runewidth.StringWidth(line)
		left := 0

		if i == 0 {
			left = padding / 2
			line = titleColor.Sprint(line)
		}

		box.WriteString(frameColor.Sprint("║") + " " +
			strings.Repeat(" ", left) + line + strings.Repeat(" ", padding-left) +
			" " + frameColor.Sprint("║") + "\n")
	}

	box.WriteString(frameColor.Sprint("╚"+strings.Repeat("═", width+2)+"╝") + "\n")

	return box.String()
}

func (c *Conductor) printHeader(summary dto.Summary) {
	fmt.Fprint(c.out, renderBox(headerLines(summary, c.app.Config(), c.player.Endpoint())))
}
