package stager

import "errors"

var (
	ErrStager                 = errors.New("stager")
	ErrConnectDependencies    = errors.New("failed to connect dependencies")
	ErrFailedToCreateRoot     = errors.New("failed to create staging root")
	ErrFailedToGetSourceFile  = errors.New("failed to get source file")
	ErrFailedToCopySourceFile = errors.New("failed to copy source file")
	ErrFailedToRemoveStage    = errors.New("failed to remove staging directory")
)
