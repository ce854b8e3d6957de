package dto

// Loudness is the result of a loudnorm scan and the ReplayGain values
// derived from it.
type Loudness struct {
	IntegratedLUFS float64
	TruePeakDBTP   float64
	GainDB         float64
	PeakLinear     float64
}
