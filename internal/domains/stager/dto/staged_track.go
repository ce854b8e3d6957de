package dto

import (
	coverartdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
	transcoderdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder/dto"
)

// StagedTrack is a track copied into the staging root and ready to be handed
// to the player.
type StagedTrack struct {
	Index      int
	SourcePath string
	StagedPath string
	StageDir   string
	CoverPath  string
	Cover      *coverartdto.Selection
	Loudness   *transcoderdto.Loudness
}

// CoverMeta is the compact description of the chosen cover, or an empty
// string when the track has none.
func (s *StagedTrack) CoverMeta() string {
	if s.Cover == nil {
		return ""
	}

	return s.Cover.Meta
}

// CoverReport is the marked candidate list shown while the track plays.
func (s *StagedTrack) CoverReport() string {
	if s.Cover == nil {
		return ""
	}

	return s.Cover.Report
}
