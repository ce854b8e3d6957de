package stager

import (
	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/models"
)

// Stats reports how many staged tracks are still on disk and how many bytes
// of audio they hold.
func (s *Stager) Stats() models.StagerStat {
	s.itemsMutex.RLock()
	defer s.itemsMutex.RUnlock()

	return s.statsLocked()
}

func (s *Stager) statsLocked() models.StagerStat {
	var stat models.StagerStat

	for _, item := range s.items {
		stat.Tracks++
		stat.Size += item.Size

		if stat.Oldest.IsZero() || item.Prepared.Before(stat.Oldest) {
			stat.Oldest = item.Prepared
		}
	}

	return stat
}

func (s *Stager) logStatsLocked(message string) {
	stat := s.statsLocked()

	s.app.Logger().WithFields(logrus.Fields{
		"tracks": stat.Tracks,
		"size":   stat.Size,
		"oldest": stat.Oldest,
	}).Debug(message)
}
