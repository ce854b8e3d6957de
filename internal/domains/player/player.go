package player

import (
	"context"
	"fmt"

	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
)

var (
	_ domains.Player    = new(Player)
	_ domains.Domain    = new(Player)
	_ domains.Stoppable = new(Player)
)

const (
	BackendMPV = "mpv"
	BackendMPD = "mpd"
)

// backend is a concrete player the domain drives.
type backend interface {
	Endpoint() string
	Running() bool
	Clear(ctx context.Context) error
	Load(ctx context.Context, path string, mode dto.LoadMode) error
	Position(ctx context.Context) (int, bool, error)
	CurrentPath(ctx context.Context) (string, error)
	ReplayGain(ctx context.Context) (string, error)
	Close() error
}

type Player struct {
	app *application.App

	backend backend
}

func New(app *application.App) *Player {
	return &Player{
		app: app,
	}
}

func (p *Player) ConnectDependencies() error {
	return nil
}

// Start launches or connects to the configured backend.
func (p *Player) Start() error {
	config := p.app.Config()

	switch config.Player.Backend {
	case BackendMPV:
		mpv, err := startMPV(p.app.Context(), mpvOptions{
			Binary:         config.Player.Binary,
			SocketDir:      config.Player.SocketDir,
			Normalize:      config.Playback.Normalize,
			AdditionalArgs: config.Player.AdditionalArgs,
		}, p.app.Logger())
		if err != nil {
			return err
		}

		p.backend = mpv
	case BackendMPD:
		mpd, err := dialMPD(config.Player.MPDAddress, config.Player.MPDPassword, p.app.Logger())
		if err != nil {
			return err
		}

		p.backend = mpd
	default:
		return fmt.Errorf("%w: %w (%s)", ErrPlayer, ErrUnknownBackend, config.Player.Backend)
	}

	p.app.Logger().WithField("endpoint", p.backend.Endpoint()).Debug("Player started")

	return nil
}

// Stop shuts the backend down.
func (p *Player) Stop() error {
	if p.backend == nil {
		return nil
	}

	return p.backend.Close()
}

func (p *Player) Endpoint() string {
	if p.backend == nil {
		return ""
	}

	return p.backend.Endpoint()
}

func (p *Player) Running() bool {
	return p.backend != nil && p.backend.Running()
}

func (p *Player) Clear(ctx context.Context) error {
	if p.backend == nil {
		return fmt.Errorf("%w: %w", ErrPlayer, ErrNotStarted)
	}

	return p.backend.Clear(ctx)
}

func (p *Player) Load(ctx context.Context, path string, mode dto.LoadMode) error {
	if p.backend == nil {
		return fmt.Errorf("%w: %w", ErrPlayer, ErrNotStarted)
	}

	return p.backend.Load(ctx, path, mode)
}

// Position returns the index of the playing entry. ok is false when nothing
// is selected.
func (p *Player) Position(ctx context.Context) (int, bool, error) {
	if p.backend == nil {
		return 0, false, fmt.Errorf("%w: %w", ErrPlayer, ErrNotStarted)
	}

	return p.backend.Position(ctx)
}

func (p *Player) CurrentPath(ctx context.Context) (string, error) {
	if p.backend == nil {
		return "", fmt.Errorf("%w: %w", ErrPlayer, ErrNotStarted)
	}

	return p.backend.CurrentPath(ctx)
}

// ReplayGain returns the track gain the player applies, such as "-6.20 dB",
// or an empty string when none is reported.
func (p *Player) ReplayGain(ctx context.Context) (string, error) {
	if p.backend == nil {
		return "", fmt.Errorf("%w: %w", ErrPlayer, ErrNotStarted)
	}

	return p.backend.ReplayGain(ctx)
}
