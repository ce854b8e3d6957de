package stager

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
)

const rootPrefix = "mpvtunes-"

// hostRAMDisks lists tmpfs mounts worth trying before the system temp dir.
func hostRAMDisks() []string {
	if runtime.GOOS == "linux" {
		return []string{"/dev/shm"}
	}

	return nil
}

// createRoot makes a fresh mpvtunes-* directory. An explicitly configured
// parent wins; otherwise the first usable RAM disk is used and the system
// temp dir is the last resort.
func createRoot(configured string, ramDisks []string, logger *logrus.Entry) (string, error) {
	if configured != "" {
		err := os.MkdirAll(configured, 0o755)
		if err != nil {
			return "", fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToCreateRoot, err)
		}

		root, err := os.MkdirTemp(configured, rootPrefix)
		if err != nil {
			return "", fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToCreateRoot, err)
		}

		return root, nil
	}

	for _, disk := range ramDisks {
		info, err := os.Stat(disk)
		if err != nil || !info.IsDir() {
			continue
		}

		root, err := os.MkdirTemp(disk, rootPrefix)
		if err == nil {
			return root, nil
		}

		logger.WithError(err).WithField("dir", disk).Warn("Could not create staging dir on RAM disk, falling back to system temp")
	}

	logger.Warn("Staging under system temp, which may not be in RAM. Set MPVTUNES_TMPDIR to a tmpfs or ramdisk for best performance")

	root, err := os.MkdirTemp("", rootPrefix)
	if err != nil {
		return "", fmt.Errorf("%w: %w (%w)", ErrStager, ErrFailedToCreateRoot, err)
	}

	return root, nil
}
