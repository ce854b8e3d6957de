package dto

// Summary describes a track source for the start-up banner.
type Summary struct {
	Mode  string
	Path  string
	Total int

	Albums                int
	AlbumSpread           bool
	RecentWindow          int
	RescanIntervalSeconds int
}
