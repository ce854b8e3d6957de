package dto

// LoadMode tells the player what to do with a newly loaded file.
type LoadMode string

const (
	// LoadReplace stops playback and plays the file right away.
	LoadReplace LoadMode = "replace"
	// LoadAppendPlay appends the file and starts playback if idle.
	LoadAppendPlay LoadMode = "append-play"
)
