package transcoder

import (
	"fmt"
	"os/exec"

	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

var (
	_ domains.Transcoder = new(Transcoder)
	_ domains.Domain     = new(Transcoder)
)

const (
	ffmpegBinary  = "ffmpeg"
	ffprobeBinary = "ffprobe"
)

type Transcoder struct {
	app            *application.App
	transcodeQueue chan struct{}

	ffmpeg  string
	ffprobe string
}

func New(app *application.App) *Transcoder {
	return &Transcoder{
		app:            app,
		transcodeQueue: make(chan struct{}, max(1, app.Config().Playback.Parallel)),
	}
}

func (t *Transcoder) ConnectDependencies() error {
	return nil
}

// Start resolves ffmpeg and ffprobe. Missing tools only disable the
// features that need them, unless normalization was requested.
func (t *Transcoder) Start() error {
	if path, err := exec.LookPath(ffmpegBinary); err == nil {
		t.ffmpeg = path
	} else {
		t.app.Logger().WithError(err).Warn("ffmpeg not found: tag stripping and cover conversion are disabled")
	}

	if path, err := exec.LookPath(ffprobeBinary); err == nil {
		t.ffprobe = path
	} else {
		t.app.Logger().WithError(err).Warn("ffprobe not found: image probing falls back to built-in decoders")
	}

	if t.app.Config().Playback.Normalize && t.ffmpeg == "" {
		return fmt.Errorf(
			"%w: %w (%s)", ErrTranscoder, ErrBinaryNotFound,
			"normalization requested but ffmpeg (loudnorm) is missing",
		)
	}

	return nil
}

// QueueChannel bounds how many ffmpeg-heavy preparations run at once.
func (t *Transcoder) QueueChannel() chan struct{} {
	return t.transcodeQueue
}

func (t *Transcoder) requireFFmpeg() error {
	if t.ffmpeg == "" {
		return fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrBinaryNotFound, ffmpegBinary)
	}

	return nil
}
