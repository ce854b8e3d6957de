package domains

import (
	"context"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
)

const PlayerName = "player"

type Player interface {
	Endpoint() string
	Running() bool
	Clear(ctx context.Context) error
	Load(ctx context.Context, path string, mode dto.LoadMode) error
	Position(ctx context.Context) (int, bool, error)
	CurrentPath(ctx context.Context) (string, error)
	ReplayGain(ctx context.Context) (string, error)
}
