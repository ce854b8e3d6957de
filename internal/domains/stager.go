package domains

import (
	"context"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/dto"
)

const StagerName = "stager"

type Stager interface {
	Root() string
	PrepareTrack(ctx context.Context, index int, sourcePath string) (*dto.StagedTrack, error)
	StagedTrack(index int) (*dto.StagedTrack, bool)
	CleanFinished(upto int)
}
