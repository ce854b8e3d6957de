package coverart

import "source.hodakov.me/hdkv/mpvtunes/internal/configuration"

const (
	defaultTinyFrontArea       = 200_000
	defaultAreaClosenessPct    = 75
	defaultSquarishTolerance   = 0.13
	defaultOverlapThresholdPct = 50
)

// Settings carries the thresholds used by the analyzer and the selector.
type Settings struct {
	// Bucket-1 images below this area may lose to a larger unqualified one.
	TinyFrontArea int
	// Squarish bucket-2 images whose areas are within this percentage of
	// each other are not ranked by area.
	AreaClosenessPct int
	// Maximum |width/height - 1| for an image to count as squarish.
	SquarishTolerance float64
	// Minimum album-name overlap (percent) that qualifies an image as front art.
	OverlapThresholdPct int
	Debug               bool
}

func DefaultSettings() Settings {
	return Settings{
		TinyFrontArea:       defaultTinyFrontArea,
		AreaClosenessPct:    defaultAreaClosenessPct,
		SquarishTolerance:   defaultSquarishTolerance,
		OverlapThresholdPct: defaultOverlapThresholdPct,
	}
}

// NewSettings builds Settings from configuration, keeping defaults for
// unset values.
func NewSettings(cfg configuration.Covers) Settings {
	settings := DefaultSettings()

	if cfg.TinyFrontArea > 0 {
		settings.TinyFrontArea = cfg.TinyFrontArea
	}

	if cfg.AreaClosenessPct > 0 {
		settings.AreaClosenessPct = cfg.AreaClosenessPct
	}

	if cfg.SquarishTolerance > 0 {
		settings.SquarishTolerance = cfg.SquarishTolerance
	}

	if cfg.OverlapThresholdPct > 0 {
		settings.OverlapThresholdPct = cfg.OverlapThresholdPct
	}

	settings.Debug = cfg.Debug

	return settings
}

// isSquarish compares the long side to the short one.
func (s Settings) isSquarish(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}

	long, short := max(width, height), min(width, height)

	return float64(long)/float64(short)-1 <= s.SquarishTolerance
}
