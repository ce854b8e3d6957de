package coverart

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

// Prober reports the pixel dimensions of an image. It never fails loudly:
// ok is false when the dimensions are unknown.
type Prober interface {
	Probe(ctx context.Context, path string) (width, height int, ok bool)
}

// DecodeProber reads only the image header with the registered Go decoders.
type DecodeProber struct{}

func (DecodeProber) Probe(_ context.Context, path string) (int, int, bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer func() {
		_ = file.Close()
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil || config.Width <= 0 || config.Height <= 0 {
		return 0, 0, false
	}

	return config.Width, config.Height, true
}

// TranscoderProber asks ffprobe through the transcoder domain.
type TranscoderProber struct {
	Transcoder domains.Transcoder
}

func (p TranscoderProber) Probe(ctx context.Context, path string) (int, int, bool) {
	width, height, err := p.Transcoder.ProbeDimensions(ctx, path)
	if err != nil || width <= 0 || height <= 0 {
		return 0, 0, false
	}

	return width, height, true
}

// ChainProber returns the first successful answer.
type ChainProber []Prober

func (c ChainProber) Probe(ctx context.Context, path string) (int, int, bool) {
	for _, prober := range c {
		if width, height, ok := prober.Probe(ctx, path); ok {
			return width, height, true
		}
	}

	return 0, 0, false
}
