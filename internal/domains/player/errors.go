package player

import "errors"

var (
	ErrPlayer         = errors.New("player")
	ErrUnknownBackend = errors.New("unknown player backend")
	ErrNotStarted     = errors.New("player is not started")
	ErrFailedToStart  = errors.New("failed to start player")
	ErrSocketTimeout  = errors.New("IPC socket did not appear")
	ErrIPCFailed      = errors.New("IPC request failed")
	ErrIPCCommand     = errors.New("IPC command returned an error")
	ErrUnknownAction  = errors.New("unknown action")
	ErrMPDFailed      = errors.New("MPD request failed")
)
