package conductor

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

var (
	_ domains.Conductor = new(Conductor)
	_ domains.Domain    = new(Conductor)
)

type Conductor struct {
	app *application.App

	library domains.Library
	stager  domains.Stager
	player  domains.Player

	out io.Writer
}

func New(app *application.App) *Conductor {
	return &Conductor{
		app: app,
		out: color.Error,
	}
}

func (c *Conductor) ConnectDependencies() error {
	library, ok := c.app.RetrieveDomain(domains.LibraryName).(domains.Library)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConductor, ErrConnectDependencies,
			"library domain interface conversion failed",
		)
	}

	stager, ok := c.app.RetrieveDomain(domains.StagerName).(domains.Stager)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConductor, ErrConnectDependencies,
			"stager domain interface conversion failed",
		)
	}

	player, ok := c.app.RetrieveDomain(domains.PlayerName).(domains.Player)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConductor, ErrConnectDependencies,
			"player domain interface conversion failed",
		)
	}

	c.library = library
	c.stager = stager
	c.player = player

	return nil
}

// Start disables colours when the report does not go to a terminal.
func (c *Conductor) Start() error {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())

	return nil
}
