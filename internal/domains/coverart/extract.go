package coverart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

// Extractor writes the picture embedded in an audio file to output as PNG.
// On failure no output file is left behind.
type Extractor interface {
	Extract(ctx context.Context, sourcePath, outputPath string) error
}

// Converter turns any supported image into a PNG file.
type Converter interface {
	Convert(ctx context.Context, sourcePath, outputPath string) error
}

// TagExtractor reads the picture from the file's tags without external tools.
type TagExtractor struct{}

func (TagExtractor) Extract(_ context.Context, sourcePath, outputPath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrExtractionFailed, err)
	}
	defer func() {
		_ = file.Close()
	}()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrExtractionFailed, err)
	}

	picture := metadata.Picture()
	if picture == nil || len(picture.Data) == 0 {
		return fmt.Errorf("%w: %w", ErrCoverArt, ErrNoEmbeddedPicture)
	}

	img, _, err := image.Decode(bytes.NewReader(picture.Data))
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrExtractionFailed, err)
	}

	return writePNG(img, outputPath)
}

// TranscoderExtractor uses ffmpeg through the transcoder domain. It handles
// containers dhowden/tag does not know about.
type TranscoderExtractor struct {
	Transcoder domains.Transcoder
}

func (e TranscoderExtractor) Extract(ctx context.Context, sourcePath, outputPath string) error {
	err := e.Transcoder.ExtractPicture(ctx, sourcePath, outputPath)
	if err != nil {
		removeEmpty(outputPath, true)

		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrExtractionFailed, err)
	}

	return nil
}

// ChainExtractor tries each extractor until one produces a non-empty file.
type ChainExtractor []Extractor

func (c ChainExtractor) Extract(ctx context.Context, sourcePath, outputPath string) error {
	errs := make([]error, 0, len(c))

	for _, extractor := range c {
		err := extractor.Extract(ctx, sourcePath, outputPath)
		if err == nil && !removeEmpty(outputPath, false) {
			return nil
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrExtractionFailed, errors.Join(errs...))
}

// DecodeConverter re-encodes images the Go decoders understand.
type DecodeConverter struct{}

func (DecodeConverter) Convert(_ context.Context, sourcePath, outputPath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}

	return writePNG(img, outputPath)
}

// TranscoderConverter converts through ffmpeg, covering formats such as SVG.
type TranscoderConverter struct {
	Transcoder domains.Transcoder
}

func (c TranscoderConverter) Convert(ctx context.Context, sourcePath, outputPath string) error {
	err := c.Transcoder.ConvertToPNG(ctx, sourcePath, outputPath)
	if err != nil {
		removeEmpty(outputPath, true)

		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}

	return nil
}

type ChainConverter []Converter

func (c ChainConverter) Convert(ctx context.Context, sourcePath, outputPath string) error {
	errs := make([]error, 0, len(c))

	for _, converter := range c {
		err := converter.Convert(ctx, sourcePath, outputPath)
		if err == nil && !removeEmpty(outputPath, false) {
			return nil
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, errors.Join(errs...))
}

func writePNG(img image.Image, outputPath string) error {
	err := os.MkdirAll(filepath.Dir(outputPath), 0o755)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}

	err = png.Encode(output, img)
	closeErr := output.Close()

	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(outputPath)

		return fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrConversionFailed, err)
	}

	return nil
}

// removeEmpty deletes path when it is empty, or unconditionally when force
// is set. It reports whether the file is gone.
func removeEmpty(path string, force bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}

	if force || info.Size() == 0 {
		_ = os.Remove(path)

		return true
	}

	return false
}
