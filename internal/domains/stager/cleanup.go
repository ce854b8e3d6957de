package stager

import (
	"os"
	"path/filepath"
	"strconv"
)

// CleanFinished removes the stage directories of every track before upto
// that was not removed yet.
func (s *Stager) CleanFinished(upto int) {
	s.itemsMutex.Lock()
	defer s.itemsMutex.Unlock()

	if upto-1 <= s.lastCleaned {
		return
	}

	for index := s.lastCleaned + 1; index < upto; index++ {
		err := os.RemoveAll(filepath.Join(s.root, strconv.Itoa(index)))
		if err != nil {
			s.app.Logger().WithError(err).WithField("index", index).Warn("Failed to remove finished track")
		}

		delete(s.items, index)
	}

	s.lastCleaned = upto - 1

	s.logStatsLocked("Finished tracks cleaned")
}
