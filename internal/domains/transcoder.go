package domains

import (
	"context"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder/dto"
)

const TranscoderName = "transcoder"

type Transcoder interface {
	StripID3(ctx context.Context, path string) error
	StripEmbeddedArt(ctx context.Context, path string) error
	StripReplayGain(ctx context.Context, path string) error
	AddReplayGain(ctx context.Context, path string) (*dto.Loudness, error)
	ConvertToPNG(ctx context.Context, sourcePath, destinationPath string) error
	ExtractPicture(ctx context.Context, sourcePath, destinationPath string) error
	ProbeDimensions(ctx context.Context, path string) (int, int, error)
	QueueChannel() chan struct{}
}
