package transcoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder/dto"
)

const (
	targetLoudnessLUFS = -18.0
	loudnormFilter     = "loudnorm=I=-18:TP=-1.5:LRA=11:print_format=json"
)

// loudnormReport is the subset of loudnorm's JSON summary we need. ffmpeg
// prints the numbers as strings.
type loudnormReport struct {
	InputI  string `json:"input_i"`
	InputTP string `json:"input_tp"`
}

// MeasureLoudness runs a loudnorm analysis pass over path.
func (t *Transcoder) MeasureLoudness(ctx context.Context, path string) (*dto.Loudness, error) {
	err := t.requireFFmpeg()
	if err != nil {
		return nil, err
	}

	ffmpeg := exec.CommandContext(ctx, t.ffmpeg,
		"-hide_banner", "-nostdin",
		"-i", path,
		"-af", loudnormFilter,
		"-f", "null", "-",
	)

	var output bytes.Buffer
	ffmpeg.Stdout = &output
	ffmpeg.Stderr = &output

	err = ffmpeg.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrLoudnessScanFailed, err)
	}

	return ParseLoudnorm(output.Bytes())
}

// AddReplayGain measures path and writes track gain and peak tags so the
// player can normalize it to the target loudness.
func (t *Transcoder) AddReplayGain(ctx context.Context, path string) (*dto.Loudness, error) {
	loudness, err := t.MeasureLoudness(ctx, path)
	if err != nil {
		t.app.Logger().WithError(err).WithField("file", path).Warn("ReplayGain scan failed, RG tags not added")

		return nil, err
	}

	err = t.rewrite(ctx, path, "rg", replayGainTagArgs(loudness))
	if err != nil {
		return nil, err
	}

	t.app.Logger().WithFields(logrus.Fields{
		"file":       path,
		"integrated": loudness.IntegratedLUFS,
		"gain":       loudness.GainDB,
		"peak":       loudness.PeakLinear,
	}).Debug("ReplayGain tags added")

	return loudness, nil
}

// ParseLoudnorm extracts the loudnorm JSON block from ffmpeg output and
// derives the ReplayGain values.
func ParseLoudnorm(output []byte) (*dto.Loudness, error) {
	start := bytes.IndexByte(output, '{')
	end := bytes.LastIndexByte(output, '}')

	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrLoudnessParseFailed, "no loudnorm JSON found")
	}

	var report loudnormReport

	err := json.Unmarshal(output[start:end+1], &report)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrLoudnessParseFailed, err)
	}

	integrated, err := parseMeasurement(report.InputI)
	if err != nil {
		return nil, err
	}

	truePeak, err := parseMeasurement(report.InputTP)
	if err != nil {
		return nil, err
	}

	return &dto.Loudness{
		IntegratedLUFS: integrated,
		TruePeakDBTP:   truePeak,
		GainDB:         targetLoudnessLUFS - integrated,
		PeakLinear:     math.Pow(10, truePeak/20),
	}, nil
}

func parseMeasurement(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrLoudnessParseFailed, "bad measurement "+value)
	}

	return parsed, nil
}

func replayGainTagArgs(loudness *dto.Loudness) []string {
	return []string{
		"-metadata", fmt.Sprintf("replaygain_track_gain=%.2f dB", loudness.GainDB),
		"-metadata", fmt.Sprintf("replaygain_track_peak=%.6f", loudness.PeakLinear),
	}
}
