package domains

import (
	"context"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

const CoverArtName = "coverart"

type CoverArt interface {
	SelectForTrack(ctx context.Context, track, workDir string) (*dto.Selection, error)
	Install(ctx context.Context, selection *dto.Selection, stageDir string) (string, error)
}
