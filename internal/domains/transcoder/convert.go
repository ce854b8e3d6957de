package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

// Every rewrite keeps the audio stream and the container metadata.
var copyAudioArgs = []string{
	"-map", "0:a",
	"-map_metadata", "0",
	"-vn", "-dn", "-sn",
	"-c", "copy",
}

var clearReplayGainArgs = []string{
	"-metadata", "replaygain_track_gain=",
	"-metadata", "replaygain_track_peak=",
	"-metadata", "replaygain_reference_loudness=",
}

// StripID3 rewrites FLAC files to drop ID3 blocks some taggers prepend.
// Other formats are left alone.
func (t *Transcoder) StripID3(ctx context.Context, path string) error {
	if formats.Extension(path) != "flac" {
		return nil
	}

	return t.rewrite(ctx, path, "clean", nil)
}

// StripEmbeddedArt removes attached pictures so the player shows the
// selected cover instead.
func (t *Transcoder) StripEmbeddedArt(ctx context.Context, path string) error {
	return t.rewrite(ctx, path, "noart", nil)
}

// StripReplayGain clears existing ReplayGain tags.
func (t *Transcoder) StripReplayGain(ctx context.Context, path string) error {
	return t.rewrite(ctx, path, "norg", clearReplayGainArgs)
}

// ConvertToPNG renders the first frame of any image ffmpeg reads as PNG.
func (t *Transcoder) ConvertToPNG(ctx context.Context, sourcePath, destinationPath string) error {
	return t.renderFrame(ctx, sourcePath, destinationPath, nil)
}

// ExtractPicture writes the first video stream of an audio file (its
// attached picture) as PNG.
func (t *Transcoder) ExtractPicture(ctx context.Context, sourcePath, destinationPath string) error {
	return t.renderFrame(ctx, sourcePath, destinationPath, []string{"-map", "0:v:0"})
}

func (t *Transcoder) renderFrame(ctx context.Context, sourcePath, destinationPath string, mapArgs []string) error {
	err := t.requireFFmpeg()
	if err != nil {
		return err
	}

	args := []string{"-loglevel", "error", "-nostdin", "-y", "-i", sourcePath}
	args = append(args, mapArgs...)
	args = append(args, "-frames:v", "1", destinationPath)

	err = t.runFFmpeg(ctx, args)
	if err == nil {
		err = verifyOutput(destinationPath, 1)
	}

	if err != nil {
		_ = os.Remove(destinationPath)

		return err
	}

	return nil
}

// rewrite runs ffmpeg from path into a temporary sibling and replaces path
// with it on success. On failure the original file is untouched.
func (t *Transcoder) rewrite(ctx context.Context, path, tag string, extraArgs []string) error {
	err := t.requireFFmpeg()
	if err != nil {
		return err
	}

	temporary := siblingPath(path, tag)

	err = t.runFFmpeg(ctx, rewriteArgs(path, temporary, extraArgs))
	if err == nil {
		err = verifyOutput(temporary, 1)
	}

	if err == nil {
		err = os.Rename(temporary, path)
		if err != nil {
			err = fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrTranscodeError, err)
		}
	}

	if err != nil {
		_ = os.Remove(temporary)

		t.app.Logger().WithError(err).WithFields(logrus.Fields{
			"file":      path,
			"operation": tag,
		}).Warn("ffmpeg rewrite failed, keeping the file as is")

		return err
	}

	t.app.Logger().WithFields(logrus.Fields{
		"file":      path,
		"operation": tag,
	}).Debug("File rewritten")

	return nil
}

func (t *Transcoder) runFFmpeg(ctx context.Context, args []string) error {
	t.app.Logger().WithField(
		"ffmpeg command", "ffmpeg "+strings.Join(args, " "),
	).Debug("FFMpeg parameters")

	ffmpeg := exec.CommandContext(ctx, t.ffmpeg, args...)
	var stderr bytes.Buffer
	ffmpeg.Stderr = &stderr

	if err := ffmpeg.Run(); err != nil {
		t.app.Logger().WithField("ffmpeg stderr", stderr.String()).Debug("Got ffmpeg stderr")

		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrTranscodeError, err)
	}

	return nil
}

func rewriteArgs(sourcePath, destinationPath string, extraArgs []string) []string {
	args := []string{"-loglevel", "error", "-nostdin", "-y", "-i", sourcePath}
	args = append(args, copyAudioArgs...)
	args = append(args, extraArgs...)

	return append(args, destinationPath)
}

// siblingPath turns /a/01.flac into /a/01.<tag>.flac.
func siblingPath(path, tag string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "." + tag + ext
}

func verifyOutput(path string, minSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrTranscodedFileNotFound, err)
	}

	if info.Size() < minSize {
		return fmt.Errorf(
			"%w: %w (%s)",
			ErrTranscoder, ErrTranscodedFileNotFound,
			fmt.Sprintf("size is %d bytes", info.Size()),
		)
	}

	return nil
}
