package conductor

import "errors"

var (
	ErrConductor           = errors.New("conductor")
	ErrConnectDependencies = errors.New("failed to connect dependencies")
	ErrCantOpenSource      = errors.New("can't open track source")
	ErrCantLoadTrack       = errors.New("can't load track into the player")
)
