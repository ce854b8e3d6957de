package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

var (
	plsEntryRegexp = regexp.MustCompile(`^File[0-9]+=(.+)$`)
	cueFileRegexp  = regexp.MustCompile(`(?i)^FILE\s+"([^"]+)"`)
)

// entryParser extracts the path from one playlist line, if the line holds
// one.
type entryParser func(line string) (string, bool)

func parseM3ULine(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}

	return line, true
}

func parsePLSLine(line string) (string, bool) {
	match := plsEntryRegexp.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}

	return match[1], true
}

func parseCueLine(line string) (string, bool) {
	match := cueFileRegexp.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// ParsePlaylist reads an m3u/m3u8, pls or cue file and returns the existing
// audio files it references. Relative entries are resolved against the
// playlist's directory; entries that exist but are not audio are skipped
// with a warning.
func ParsePlaylist(path string, logger *logrus.Entry) ([]string, error) {
	var parser entryParser

	switch formats.Extension(path) {
	case "m3u", "m3u8":
		parser = parseM3ULine
	case "pls":
		parser = parsePLSLine
	case "cue":
		parser = parseCueLine
	default:
		return nil, fmt.Errorf("%w: %w (%s)", ErrLibrary, ErrUnsupportedPlaylist, formats.Extension(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantReadPlaylist, err)
	}
	defer file.Close()

	baseDir := filepath.Dir(absolute(path))
	tracks := make([]string, 0)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		entry, ok := parser(strings.TrimRight(scanner.Text(), "\r"))
		if !ok {
			continue
		}

		if !filepath.IsAbs(entry) {
			entry = filepath.Join(baseDir, entry)
		}

		info, err := os.Stat(entry)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if !formats.IsAudio(entry) {
			logger.WithField("entry", entry).Warn("Skipping non-audio entry in playlist")

			continue
		}

		tracks = append(tracks, entry)
	}

	err = scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrLibrary, ErrCantReadPlaylist, err)
	}

	return tracks, nil
}
