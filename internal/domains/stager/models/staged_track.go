package models

import (
	"time"

	coverartdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/dto"
	transcoderdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/transcoder/dto"
)

type StagedTrack struct {
	Index      int
	SourcePath string
	StagedPath string
	StageDir   string
	CoverPath  string
	Cover      *coverartdto.Selection
	Loudness   *transcoderdto.Loudness
	Size       int64
	Prepared   time.Time
}

func StagedTrackModelToDTO(item *StagedTrack) *dto.StagedTrack {
	return &dto.StagedTrack{
		Index:      item.Index,
		SourcePath: item.SourcePath,
		StagedPath: item.StagedPath,
		StageDir:   item.StageDir,
		CoverPath:  item.CoverPath,
		Cover:      item.Cover,
		Loudness:   item.Loudness,
	}
}
