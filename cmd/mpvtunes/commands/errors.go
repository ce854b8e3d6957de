package commands

import "errors"

var (
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrCantCreateWorkDir = errors.New("can't create work directory")
)
