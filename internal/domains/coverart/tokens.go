package coverart

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

var (
	// Priority order: a lower index is a stronger front-cover hint.
	preferredKeywords = []string{"cover", "front", "folder"}

	nonFrontKeywords = []string{
		"back", "tray", "cd", "disc", "inlay", "inlet",
		"booklet", "book", "spine", "rear", "inside", "tracklisting",
	}

	lowerUpperRe   = regexp.MustCompile(`([a-z])([A-Z])`)
	upperCamelRe   = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	nonAlnumRe     = regexp.MustCompile(`[^0-9A-Za-z]+`)
	digitsRe       = regexp.MustCompile(`\d+`)
	noKeywordsRank = len(preferredKeywords) + 1
)

// NormalizeTokens splits a name on camel-case boundaries and non-alphanumeric
// runs and lower-cases the result.
func NormalizeTokens(name string) []string {
	s := lowerUpperRe.ReplaceAllString(name, "${1} ${2}")
	s = upperCamelRe.ReplaceAllString(s, "${1} ${2}")
	s = nonAlnumRe.ReplaceAllString(s, " ")

	tokens := strings.Fields(s)
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}

	return tokens
}

// CleanAlbumTokens tokenizes an album directory name and drops tokens that
// carry no identity: numbers, very short words and audio extensions.
// Duplicates are removed, first occurrence wins.
func CleanAlbumTokens(name string) []string {
	cleaned := make([]string, 0)

	for _, token := range NormalizeTokens(name) {
		if isNumeric(token) || len(token) <= 2 || formats.IsAudioExtension(token) {
			continue
		}

		if !slices.Contains(cleaned, token) {
			cleaned = append(cleaned, token)
		}
	}

	return cleaned
}

// TokenOverlap counts the tokens of name that appear in album.
func TokenOverlap(name, album []string) int {
	score := 0

	for _, token := range name {
		if slices.Contains(album, token) {
			score++
		}
	}

	return score
}

// TrailingNumber returns the last run of digits in name.
func TrailingNumber(name string) (int, bool) {
	matches := digitsRe.FindAllString(name, -1)
	if len(matches) == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}

	return n, true
}

func keywordHits(tokens []string) (int, int) {
	count, rank := 0, noKeywordsRank

	for i, keyword := range preferredKeywords {
		if slices.Contains(tokens, keyword) {
			count++

			if rank == noKeywordsRank {
				rank = i
			}
		}
	}

	return count, rank
}

func hasNonFrontToken(tokens, albumTokens []string) bool {
	for _, token := range tokens {
		if slices.Contains(nonFrontKeywords, token) && !slices.Contains(albumTokens, token) {
			return true
		}
	}

	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return s != ""
}
