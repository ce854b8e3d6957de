package dto

// Track is one entry handed to the player. Album is set only when the track
// was picked by album rotation.
type Track struct {
	Path  string
	Album string
}
