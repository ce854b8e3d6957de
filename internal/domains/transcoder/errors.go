package transcoder

import "errors"

var (
	ErrTranscoder             = errors.New("transcoder")
	ErrBinaryNotFound         = errors.New("binary not found in PATH")
	ErrTranscodeError         = errors.New("transcode error")
	ErrTranscodedFileNotFound = errors.New("transcoded file not found")
	ErrProbeFailed            = errors.New("probe failed")
	ErrLoudnessScanFailed     = errors.New("loudness scan failed")
	ErrLoudnessParseFailed    = errors.New("loudness parse failed")
)
