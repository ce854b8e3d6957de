package coverart

import (
	"path/filepath"
	"regexp"
	"strings"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

var discFolderRe = regexp.MustCompile(`(?i)^(disc|cd|disk)[\s_.-]*\d+$`)

// ScopeRank returns the priority of a scope name, lower is better.
func ScopeRank(scope string) int {
	switch scope {
	case dto.ScopeEmbedded:
		return 0
	case dto.ScopeTrackFolder:
		return 1
	case dto.ScopeOtherDisc:
		return 3
	default:
		return 2
	}
}

// ClassifyScope tells where path was found relative to the track directory
// and the album root. albumRoot may be empty when it is unknown.
func ClassifyScope(path, embeddedPath, trackDir, albumRoot string, multiDisc bool) string {
	if embeddedPath != "" && path == embeddedPath {
		return dto.ScopeEmbedded
	}

	if albumRoot == "" {
		if isWithin(path, trackDir) {
			return dto.ScopeTrackFolder
		}

		return dto.ScopeExternal
	}

	if !multiDisc {
		if isWithin(path, albumRoot) {
			return dto.ScopeTrackFolder
		}

		return dto.ScopeExternal
	}

	candidateParts := relativeParts(path, albumRoot)
	if candidateParts == nil {
		return dto.ScopeExternal
	}

	// Loose files directly under the album root are shared by every disc.
	if len(candidateParts) == 1 {
		return dto.ScopeAlbumRoot
	}

	trackParts := relativeParts(trackDir, albumRoot)
	if len(trackParts) > 0 && candidateParts[0] == trackParts[0] {
		return dto.ScopeTrackFolder
	}

	if discFolderRe.MatchString(candidateParts[0]) {
		return dto.ScopeOtherDisc
	}

	return dto.ScopeAlbumRoot
}

// IsMultiDisc reports whether trackDir is a strict descendant of albumRoot.
func IsMultiDisc(trackDir, albumRoot string) bool {
	if albumRoot == "" {
		return false
	}

	return len(relativeParts(trackDir, albumRoot)) > 0
}

// isWithin reports whether path is root itself or lies below it.
func isWithin(path, root string) bool {
	return relativeParts(path, root) != nil
}

// relativeParts splits path relative to root. It returns nil when path is
// outside root and an empty slice when they are the same.
func relativeParts(path, root string) []string {
	if root == "" {
		return nil
	}

	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return nil
	}

	if rel == "." {
		return []string{}
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	return strings.Split(rel, string(filepath.Separator))
}
