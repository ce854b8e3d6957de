package models

// Album is a top-level library directory with every audio file found under
// it.
type Album struct {
	Path   string
	Tracks []string
}

// AlbumMap is a snapshot of the library's albums.
type AlbumMap struct {
	Albums      []*Album
	ByPath      map[string]*Album
	TotalTracks int
}

func NewAlbumMap(albums []*Album) *AlbumMap {
	albumMap := &AlbumMap{
		Albums: albums,
		ByPath: make(map[string]*Album, len(albums)),
	}

	for _, album := range albums {
		albumMap.ByPath[album.Path] = album
		albumMap.TotalTracks += len(album.Tracks)
	}

	return albumMap
}

func (m *AlbumMap) Contains(path string) bool {
	_, ok := m.ByPath[path]

	return ok
}
