package coverart

import (
	"slices"
	"strings"
	"testing"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

func candidate(name string, width, height, bucket, scopeRank int) dto.Candidate {
	scope := dto.ScopeTrackFolder
	if scopeRank == 0 {
		scope = dto.ScopeEmbedded
	}

	return dto.Candidate{
		Path:        "/music/Album/" + name,
		Name:        name,
		Width:       width,
		Height:      height,
		Area:        width * height,
		Bucket:      bucket,
		Scope:       scope,
		ScopeRank:   scopeRank,
		KeywordRank: noKeywordsRank,
		SourceType:  dto.SourceExternal,
		RelDisplay:  name,
	}
}

func withKeyword(c dto.Candidate, rank int) dto.Candidate {
	c.PrefKeywordCount = 1
	c.KeywordRank = rank

	return c
}

func withNameTokens(c dto.Candidate, score int) dto.Candidate {
	c.NameTokenScore = score

	return c
}

func embeddedCandidate(width, height int) dto.Candidate {
	c := withKeyword(candidate("embedded-cover.png", width, height, bucketFront, 0), 0)
	c.Path = "/tmp/stage/0/embedded-cover.png"
	c.SourceType = dto.SourceEmbedded
	c.IsEmbedded = true
	c.RelDisplay = embeddedDisplay

	return c
}

func linesFor(candidates []dto.Candidate) []string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, DebugLine(c))
	}

	return lines
}

func selectName(t *testing.T, candidates []dto.Candidate) string {
	t.Helper()

	winner, _, _ := Select(candidates, linesFor(candidates), DefaultSettings())
	if winner == nil {
		t.Fatal("Expected a winner, got none")
	}

	return winner.Name
}

func TestSelect_Empty(t *testing.T) {
	winner, meta, report := Select(nil, nil, DefaultSettings())

	if winner != nil {
		t.Errorf("Expected no winner, got %s", winner.Name)
	}
	if meta != "" {
		t.Errorf("Expected empty meta, got %q", meta)
	}
	if report != "[ ] no images found" {
		t.Errorf("Unexpected report %q", report)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	candidates := []dto.Candidate{
		withKeyword(candidate("cover2.jpg", 1000, 1000, bucketFront, 1), 0),
		withKeyword(candidate("cover1.jpg", 1000, 1000, bucketFront, 1), 0),
		withKeyword(candidate("front.jpg", 1000, 1000, bucketFront, 1), 1),
		candidate("scan.jpg", 3000, 1000, bucketGeneral, 1),
	}

	expected := selectName(t, candidates)
	if expected != "cover1.jpg" {
		t.Fatalf("Expected cover1.jpg, got %s", expected)
	}

	for i := range candidates {
		rotated := append(slices.Clone(candidates[i:]), candidates[:i]...)
		if got := selectName(t, rotated); got != expected {
			t.Errorf("Rotation %d: expected %s, got %s", i, expected, got)
		}

		reversed := slices.Clone(rotated)
		slices.Reverse(reversed)
		if got := selectName(t, reversed); got != expected {
			t.Errorf("Reversed rotation %d: expected %s, got %s", i, expected, got)
		}
	}
}

func TestSelect_DoesNotReorderInput(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("b.jpg", 100, 100, bucketFront, 1),
		candidate("a.jpg", 900, 900, bucketFront, 1),
	}

	Select(candidates, linesFor(candidates), DefaultSettings())

	if candidates[0].Name != "b.jpg" || candidates[1].Name != "a.jpg" {
		t.Errorf("Input order changed: %s, %s", candidates[0].Name, candidates[1].Name)
	}
}

func TestSelect_TinyFrontFallsBackToLargeGeneral(t *testing.T) {
	candidates := []dto.Candidate{
		withKeyword(candidate("cover.jpg", 300, 300, bucketFront, 1), 0),
		candidate("scan-small.jpg", 200, 200, bucketGeneral, 1),
		candidate("scan.jpg", 1000, 1000, bucketGeneral, 1),
	}

	if got := selectName(t, candidates); got != "scan.jpg" {
		t.Errorf("Expected scan.jpg, got %s", got)
	}
}

func TestSelect_TinyFrontKeptWhenEverythingIsTiny(t *testing.T) {
	candidates := []dto.Candidate{
		withKeyword(candidate("cover.jpg", 300, 300, bucketFront, 1), 0),
		candidate("scan.jpg", 400, 400, bucketGeneral, 1),
	}

	if got := selectName(t, candidates); got != "cover.jpg" {
		t.Errorf("Expected cover.jpg, got %s", got)
	}
}

func TestSelect_LargerFrontWins(t *testing.T) {
	candidates := []dto.Candidate{
		withKeyword(candidate("cover.jpg", 1000, 1000, bucketFront, 1), 0),
		withKeyword(candidate("folder.jpg", 1200, 1200, bucketFront, 1), 2),
	}

	if got := selectName(t, candidates); got != "folder.jpg" {
		t.Errorf("Expected folder.jpg, got %s", got)
	}
}

func TestSelect_FrontTieBreaks(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []dto.Candidate
		expected   string
	}{
		{
			name: "scope",
			candidates: []dto.Candidate{
				withKeyword(candidate("a.jpg", 800, 800, bucketFront, 2), 0),
				withKeyword(candidate("b.jpg", 800, 800, bucketFront, 1), 0),
			},
			expected: "b.jpg",
		},
		{
			name: "keyword rank",
			candidates: []dto.Candidate{
				withKeyword(candidate("folder.jpg", 800, 800, bucketFront, 1), 2),
				withKeyword(candidate("front.jpg", 800, 800, bucketFront, 1), 1),
			},
			expected: "front.jpg",
		},
		{
			name: "numbered before unnumbered",
			candidates: []dto.Candidate{
				withKeyword(candidate("cover.jpg", 800, 800, bucketFront, 1), 0),
				withKeyword(candidate("cover2.jpg", 800, 800, bucketFront, 1), 0),
			},
			expected: "cover2.jpg",
		},
		{
			name: "lexical",
			candidates: []dto.Candidate{
				withKeyword(candidate("cover b.jpg", 800, 800, bucketFront, 1), 0),
				withKeyword(candidate("cover a.jpg", 800, 800, bucketFront, 1), 0),
			},
			expected: "cover a.jpg",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := selectName(t, tc.candidates); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestSelect_CloseSquarishAreasIgnoreArea(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("big.jpg", 1000, 1000, bucketGeneral, 1),
		withNameTokens(candidate("album name.jpg", 900, 900, bucketGeneral, 1), 2),
	}

	if got := selectName(t, candidates); got != "album name.jpg" {
		t.Errorf("Expected album name.jpg, got %s", got)
	}
}

func TestSelect_DistantSquarishAreasRankByArea(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("big.jpg", 1000, 1000, bucketGeneral, 1),
		withNameTokens(candidate("album name.jpg", 500, 500, bucketGeneral, 1), 2),
	}

	if got := selectName(t, candidates); got != "big.jpg" {
		t.Errorf("Expected big.jpg, got %s", got)
	}
}

func TestSelect_SquarishPreferredOverWide(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("panorama.jpg", 4000, 1000, bucketGeneral, 1),
		candidate("square.jpg", 600, 600, bucketGeneral, 1),
	}

	if got := selectName(t, candidates); got != "square.jpg" {
		t.Errorf("Expected square.jpg, got %s", got)
	}
}

func TestSelect_NoSquarishRanksByScopeThenArea(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("wide-root.jpg", 4000, 1000, bucketGeneral, 2),
		candidate("wide-small.jpg", 2000, 1000, bucketGeneral, 1),
		candidate("wide-large.jpg", 3000, 1000, bucketGeneral, 1),
	}

	if got := selectName(t, candidates); got != "wide-large.jpg" {
		t.Errorf("Expected wide-large.jpg, got %s", got)
	}
}

func TestSelect_UnknownBucketsAreGeneral(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("booklet.jpg", 2000, 2000, 3, 1),
		candidate("tiny.jpg", 100, 100, 0, 1),
	}

	if got := selectName(t, candidates); got != "booklet.jpg" {
		t.Errorf("Expected booklet.jpg, got %s", got)
	}
}

func TestSelect_LargeFrontBeatsEmbedded(t *testing.T) {
	front := withKeyword(candidate("front.png", 6452, 3172, bucketFront, 1), 1)
	front.SizeBytes = 115_800_000

	embedded := embeddedCandidate(500, 500)
	embedded.SizeBytes = 400_000

	candidates := []dto.Candidate{front, embedded}
	for i := 1; i <= 12; i++ {
		name := "Booklet " + string(rune('A'+i)) + ".jpg"
		candidates = append(candidates, candidate(name, 2800, 1400, 3, 1))
	}

	winner, meta, _ := Select(candidates, linesFor(candidates), DefaultSettings())
	if winner == nil || winner.Name != "front.png" {
		t.Fatalf("Expected front.png, got %v", winner)
	}
	if meta != "external|6452|3172|20465744|1|115800000" {
		t.Errorf("Unexpected meta %q", meta)
	}
}

func TestSelect_AlbumNamedCoverBeatsBooklet(t *testing.T) {
	cover := withNameTokens(
		candidate("Cat Stevens - Tea for the Tillerman.jpg", 584, 588, bucketFront, 1), 6,
	)
	cover.OverlapRatio = 1

	candidates := []dto.Candidate{
		candidate("Disc.jpg", 1433, 1394, 3, 1),
		candidate("Booklet 01.jpg", 2830, 1410, 3, 1),
		candidate("Booklet 02.jpg", 2832, 1410, 3, 1),
		candidate("Booklet 03.jpg", 2826, 1410, 3, 1),
		candidate("Back.jpg", 1766, 1358, 3, 1),
		cover,
	}

	if got := selectName(t, candidates); got != cover.Name {
		t.Errorf("Expected %s, got %s", cover.Name, got)
	}
}

func TestSelect_SquarestWinsAmongSimilarSizes(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("image1.jpg", 500, 500, bucketGeneral, 1),
		candidate("image2.jpg", 641, 500, bucketGeneral, 1),
		candidate("image3.jpg", 1009, 500, bucketGeneral, 1),
		candidate("image4.jpg", 507, 500, bucketGeneral, 1),
	}

	if got := selectName(t, candidates); got != "image1.jpg" {
		t.Errorf("Expected image1.jpg, got %s", got)
	}
}

func TestSelect_SealedFrontBeatsEmbeddedAndWideCase(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("Poppy - Case-Front.jpg", 6787, 3080, bucketGeneral, 1),
		withKeyword(candidate("Poppy - Sealed-Front.jpg", 3396, 3088, bucketFront, 1), 1),
		withNameTokens(candidate("Poppy - Negative Spaces.jpg", 1200, 1200, bucketGeneral, 1), 3),
		embeddedCandidate(600, 600),
	}

	if got := selectName(t, candidates); got != "Poppy - Sealed-Front.jpg" {
		t.Errorf("Expected Poppy - Sealed-Front.jpg, got %s", got)
	}
}

func TestSelect_ReportMarksWinner(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("back.jpg", 1000, 1000, bucketGeneral, 1),
		withKeyword(candidate("cover.jpg", 1000, 1000, bucketFront, 1), 0),
		embeddedCandidate(300, 300),
	}
	lines := linesFor(candidates)

	winner, _, report := Select(candidates, lines, DefaultSettings())
	if winner == nil || winner.Name != "cover.jpg" {
		t.Fatalf("Expected cover.jpg, got %v", winner)
	}

	reportLines := strings.Split(report, "\n")
	if len(reportLines) != len(lines) {
		t.Fatalf("Expected %d report lines, got %d", len(lines), len(reportLines))
	}

	for i, line := range reportLines {
		expectedPrefix := "[ ] "
		if i == 1 {
			expectedPrefix = "[*] "
		}

		if line != expectedPrefix+lines[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expectedPrefix+lines[i], line)
		}
	}

	if !strings.Contains(report, "[*] path="+winner.RelDisplay+" ") {
		t.Errorf("Winner display path not marked in report:\n%s", report)
	}
}

func TestFormatReport_MatchesByDisplayPath(t *testing.T) {
	candidates := []dto.Candidate{
		candidate("a.jpg", 10, 10, bucketGeneral, 1),
		candidate("b.jpg", 10, 10, bucketGeneral, 1),
	}
	lines := []string{
		DebugLine(candidates[1]),
		"unrelated line",
		DebugLine(candidates[0]),
	}

	report := FormatReport(candidates, lines, &candidates[1])
	expected := "[*] " + lines[0] + "\n[ ] unrelated line\n[ ] " + lines[2]

	if report != expected {
		t.Errorf("Expected\n%s\ngot\n%s", expected, report)
	}
}

func TestMeta(t *testing.T) {
	c := withNameTokens(withKeyword(candidate("cover.jpg", 10, 20, bucketFront, 1), 0), 2)
	c.SizeBytes = 1234

	if got := Meta(&c); got != "external|10|20|200|3|1234" {
		t.Errorf("Unexpected meta %q", got)
	}
	if got := Meta(nil); got != "" {
		t.Errorf("Expected empty meta, got %q", got)
	}
}
