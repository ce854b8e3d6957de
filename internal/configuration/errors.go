package configuration

import "errors"

var (
	ErrConfiguration        = errors.New("configuration")
	ErrCantReadConfigFile   = errors.New("can't read config file")
	ErrCantParseConfigFile  = errors.New("can't parse config file")
	ErrUnknownMode          = errors.New("unknown mode")
	ErrUnknownPlayerBackend = errors.New("unknown player backend")
	ErrInvalidValue         = errors.New("invalid value")
)
