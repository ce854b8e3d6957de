package library

import "errors"

var (
	ErrLibrary               = errors.New("library")
	ErrPathNotFound          = errors.New("path not found")
	ErrNoAudioFiles          = errors.New("no audio files found")
	ErrUnsupportedPlaylist   = errors.New("unsupported playlist extension")
	ErrCantReadPlaylist      = errors.New("can't read playlist")
	ErrCantReadRecentAlbums  = errors.New("can't read recent albums cache")
	ErrCantWriteRecentAlbums = errors.New("can't write recent albums cache")
	ErrUnknownMode           = errors.New("unknown mode")
)
