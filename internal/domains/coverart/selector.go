package coverart

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

const (
	selectedMarker = "[*] "
	neutralMarker  = "[ ] "
	noImagesReport = "[ ] no images found"
)

// Select picks the best front cover among candidates. It is a pure function
// of its input: discovery order only matters for equal paths.
// The returned winner is a copy; meta and report are empty/"no images" when
// there is none.
func Select(candidates []dto.Candidate, lines []string, settings Settings) (*dto.Candidate, string, string) {
	if len(candidates) == 0 {
		return nil, "", noImagesReport
	}

	front := make([]*dto.Candidate, 0, len(candidates))
	general := make([]*dto.Candidate, 0, len(candidates))

	for i := range candidates {
		if candidates[i].Bucket == bucketFront {
			front = append(front, &candidates[i])
		} else {
			general = append(general, &candidates[i])
		}
	}

	var winner *dto.Candidate

	switch {
	case len(front) > 0 && allTiny(front, settings.TinyFrontArea) && anyLarge(general, settings.TinyFrontArea):
		large := slices.DeleteFunc(slices.Clone(general), func(c *dto.Candidate) bool {
			return c.Area < settings.TinyFrontArea
		})
		winner = chooseGeneral(large, settings)
	case len(front) > 0:
		winner = chooseFront(front)
	default:
		winner = chooseGeneral(general, settings)
	}

	report := FormatReport(candidates, lines, winner)
	selected := *winner

	return &selected, Meta(&selected), report
}

// Meta summarizes the winner as src_type|width|height|area|score|size.
func Meta(c *dto.Candidate) string {
	if c == nil {
		return ""
	}

	return fmt.Sprintf(
		"%s|%d|%d|%d|%d|%d",
		c.SourceType, c.Width, c.Height, c.Area, c.PrefKeywordCount+c.NameTokenScore, c.SizeBytes,
	)
}

// FormatReport marks the winner's debug line as selected and every other
// line as neutral. winner must point into candidates when lines and
// candidates are parallel; otherwise lines are matched by display path.
func FormatReport(candidates []dto.Candidate, lines []string, winner *dto.Candidate) string {
	if len(lines) == 0 {
		return noImagesReport
	}

	winnerIndex := -1

	if winner != nil && len(lines) == len(candidates) {
		for i := range candidates {
			if &candidates[i] == winner || candidates[i].Path == winner.Path {
				winnerIndex = i

				break
			}
		}
	}

	formatted := make([]string, 0, len(lines))

	for i, line := range lines {
		marked := i == winnerIndex
		if winnerIndex < 0 && winner != nil {
			marked = strings.HasPrefix(line, "path="+winner.RelDisplay+" ")
		}

		if marked {
			formatted = append(formatted, selectedMarker+line)
		} else {
			formatted = append(formatted, neutralMarker+line)
		}
	}

	return strings.Join(formatted, "\n")
}

// chooseFront ranks qualified front art: largest area first, then scope,
// keyword rank, trailing number and name.
func chooseFront(candidates []*dto.Candidate) *dto.Candidate {
	ranked := slices.Clone(candidates)

	slices.SortFunc(ranked, func(a, b *dto.Candidate) int {
		return cmp.Or(
			cmp.Compare(b.Area, a.Area),
			cmp.Compare(a.ScopeRank, b.ScopeRank),
			cmp.Compare(a.KeywordRank, b.KeywordRank),
			compareTrailingNumber(a, b),
			strings.Compare(a.Name, b.Name),
			strings.Compare(a.Path, b.Path),
		)
	})

	return ranked[0]
}

// chooseGeneral ranks everything else. Squarish images are preferred; when
// their areas are close, area is ignored in favour of album-name overlap.
func chooseGeneral(candidates []*dto.Candidate, settings Settings) *dto.Candidate {
	squarish := make([]*dto.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if settings.isSquarish(c.Width, c.Height) {
			squarish = append(squarish, c)
		}
	}

	if len(squarish) == 0 {
		ranked := slices.Clone(candidates)
		slices.SortFunc(ranked, compareWithArea)

		return ranked[0]
	}

	if areasClose(squarish, settings.AreaClosenessPct) {
		slices.SortFunc(squarish, compareWithoutArea)
	} else {
		slices.SortFunc(squarish, compareWithArea)
	}

	return squarish[0]
}

func compareWithArea(a, b *dto.Candidate) int {
	return cmp.Or(
		cmp.Compare(a.ScopeRank, b.ScopeRank),
		cmp.Compare(b.Area, a.Area),
		cmp.Compare(b.NameTokenScore, a.NameTokenScore),
		cmp.Compare(a.KeywordRank, b.KeywordRank),
		compareTrailingNumber(a, b),
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.Path, b.Path),
	)
}

func compareWithoutArea(a, b *dto.Candidate) int {
	return cmp.Or(
		cmp.Compare(a.ScopeRank, b.ScopeRank),
		cmp.Compare(b.NameTokenScore, a.NameTokenScore),
		cmp.Compare(a.KeywordRank, b.KeywordRank),
		compareTrailingNumber(a, b),
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.Path, b.Path),
	)
}

// compareTrailingNumber orders names without a number after all numbered ones.
func compareTrailingNumber(a, b *dto.Candidate) int {
	return cmp.Compare(trailingOrMax(a.Name), trailingOrMax(b.Name))
}

func trailingOrMax(name string) int {
	if n, ok := TrailingNumber(name); ok {
		return n
	}

	return math.MaxInt
}

func areasClose(candidates []*dto.Candidate, closenessPct int) bool {
	smallest, largest := candidates[0].Area, candidates[0].Area

	for _, c := range candidates[1:] {
		smallest = min(smallest, c.Area)
		largest = max(largest, c.Area)
	}

	return smallest*100 >= largest*closenessPct
}

func allTiny(candidates []*dto.Candidate, floor int) bool {
	for _, c := range candidates {
		if c.Area >= floor {
			return false
		}
	}

	return true
}

func anyLarge(candidates []*dto.Candidate, floor int) bool {
	for _, c := range candidates {
		if c.Area >= floor {
			return true
		}
	}

	return false
}
