package coverart

import "errors"

var (
	ErrCoverArt            = errors.New("coverart")
	ErrConnectDependencies = errors.New("failed to connect dependencies")
	ErrNoEmbeddedPicture   = errors.New("no embedded picture")
	ErrExtractionFailed    = errors.New("picture extraction failed")
	ErrConversionFailed    = errors.New("image conversion failed")
	ErrInstallFailed       = errors.New("cover install failed")
)
