package coverart

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

const embeddedCoverName = "embedded-cover.png"

// CollectRequest describes where to look for a track's cover candidates.
type CollectRequest struct {
	TrackDir      string
	AlbumRoot     string
	MultiDisc     bool
	AudioSource   string
	ExtractionDir string
}

type Collector struct {
	extractor Extractor
	logger    *logrus.Entry
}

func NewCollector(extractor Extractor, logger *logrus.Entry) *Collector {
	return &Collector{
		extractor: extractor,
		logger:    logger,
	}
}

// Collect lists image files under the track directory, then under the album
// root for multi-disc layouts, and finally the picture extracted from the
// audio file. Paths are unique by resolved location and keep first-seen
// order. The embedded picture path is returned separately, empty if none.
func (c *Collector) Collect(ctx context.Context, req CollectRequest) ([]string, string) {
	seen := make(map[string]struct{})
	paths := make([]string, 0)

	add := func(path string) {
		key := resolvePath(path)
		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}
		paths = append(paths, path)
	}

	for _, path := range c.findImages(req.TrackDir) {
		add(path)
	}

	if req.MultiDisc && req.AlbumRoot != "" {
		for _, path := range c.findImages(req.AlbumRoot) {
			add(path)
		}
	}

	embedded := c.extractEmbedded(ctx, req.AudioSource, req.ExtractionDir)
	if embedded != "" {
		add(embedded)
	}

	return paths, embedded
}

func (c *Collector) findImages(dir string) []string {
	images := make([]string, 0)

	if dir == "" {
		return images
	}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the rest is still collected.
			if entry != nil && entry.IsDir() && path != dir {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.IsDir() && formats.IsImage(path) {
			images = append(images, path)
		}

		return nil
	})
	if err != nil {
		c.logger.WithError(err).WithField("directory", dir).Debug("Image walk stopped early")
	}

	return images
}

func (c *Collector) extractEmbedded(ctx context.Context, audioSource, extractionDir string) string {
	if c.extractor == nil || audioSource == "" || extractionDir == "" {
		return ""
	}

	err := os.MkdirAll(extractionDir, 0o755)
	if err != nil {
		c.logger.WithError(err).WithField("directory", extractionDir).Warn("Can't create extraction directory")

		return ""
	}

	output := filepath.Join(extractionDir, embeddedCoverName)
	_ = os.Remove(output)

	err = c.extractor.Extract(ctx, audioSource, output)
	if err != nil {
		removeEmpty(output, true)

		c.logger.WithError(err).WithField("track", audioSource).Debug("No embedded picture extracted")

		return ""
	}

	if removeEmpty(output, false) {
		return ""
	}

	return output
}

func resolvePath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		return filepath.Clean(resolved)
	}

	return abs
}
