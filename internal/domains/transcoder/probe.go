package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDimensions asks ffprobe for the size of the first video stream.
func (t *Transcoder) ProbeDimensions(ctx context.Context, path string) (int, int, error) {
	if t.ffprobe == "" {
		return 0, 0, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrBinaryNotFound, ffprobeBinary)
	}

	ffprobe := exec.CommandContext(ctx, t.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)

	var stdout bytes.Buffer
	ffprobe.Stdout = &stdout

	err := ffprobe.Run()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrProbeFailed, err)
	}

	return parseDimensions(stdout.String())
}

// parseDimensions reads ffprobe's "WxH" output. Only the first line counts.
func parseDimensions(output string) (int, int, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")

	widthRaw, heightRaw, found := strings.Cut(strings.TrimSpace(line), "x")
	if !found {
		return 0, 0, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrProbeFailed, "unexpected output "+output)
	}

	width, err := strconv.Atoi(strings.TrimSpace(widthRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrProbeFailed, err)
	}

	height, err := strconv.Atoi(strings.TrimSpace(heightRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrProbeFailed, err)
	}

	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrProbeFailed, "non-positive dimensions")
	}

	return width, height, nil
}
