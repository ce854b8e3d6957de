package dto

const (
	SourceEmbedded = "embedded"
	SourceExternal = "external"
)

const (
	ScopeEmbedded    = "embedded"
	ScopeTrackFolder = "track-folder"
	ScopeAlbumRoot   = "album-root"
	ScopeOtherDisc   = "other-disc"
	ScopeExternal    = "external"
)

// Candidate is one image considered as a track's cover, with every feature
// the selector ranks on.
type Candidate struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Area      int    `json:"area"`
	SizeBytes int64  `json:"size_bytes"`

	PrefKeywordCount int      `json:"pref_kw_count"`
	KeywordRank      int      `json:"kw_rank"`
	NameTokenScore   int      `json:"name_token_score"`
	OverlapRatio     float64  `json:"overlap_ratio"`
	HasNonFront      bool     `json:"has_non_front"`
	AlbumTokens      []string `json:"album_tokens"`

	Bucket     int    `json:"bucket"`
	Scope      string `json:"scope"`
	ScopeRank  int    `json:"scope_rank"`
	SourceType string `json:"src_type"`
	IsEmbedded bool   `json:"is_embedded"`
	RelDisplay string `json:"rel_display"`
}
