package coverart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

const (
	bucketFront   = 1
	bucketGeneral = 2

	embeddedDisplay = "EMBEDDED"
)

// AnalyzeRequest holds the paths produced by the collector and the track
// context they are judged against.
type AnalyzeRequest struct {
	Paths        []string
	EmbeddedPath string
	Track        string
	AlbumRoot    string
	TrackDir     string
	// BaseRoot is what external candidates are displayed relative to.
	BaseRoot string
	// Display renders paths outside BaseRoot. Nil leaves them as they are.
	Display func(path string) string
}

type Analyzer struct {
	prober   Prober
	settings Settings
}

func NewAnalyzer(prober Prober, settings Settings) *Analyzer {
	return &Analyzer{
		prober:   prober,
		settings: settings,
	}
}

// AlbumTokenSource picks the directory name the album tokens come from.
func AlbumTokenSource(albumRoot, trackDir string) string {
	if albumRoot != "" && filepath.Clean(albumRoot) == filepath.Dir(filepath.Clean(trackDir)) {
		return filepath.Base(trackDir)
	}

	if albumRoot != "" {
		return filepath.Base(albumRoot)
	}

	return filepath.Base(trackDir)
}

// Analyze computes the feature vector of every candidate and a debug line
// for each, in the same order as req.Paths. Probe and stat failures degrade
// the candidate to zero geometry or size.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) ([]dto.Candidate, []string) {
	albumTokens := CleanAlbumTokens(AlbumTokenSource(req.AlbumRoot, req.TrackDir))
	multiDisc := IsMultiDisc(req.TrackDir, req.AlbumRoot)

	candidates := make([]dto.Candidate, 0, len(req.Paths))
	lines := make([]string, 0, len(req.Paths))

	for _, path := range req.Paths {
		candidate := a.analyzeOne(ctx, path, albumTokens, multiDisc, req)
		candidates = append(candidates, candidate)
		lines = append(lines, DebugLine(candidate))
	}

	return candidates, lines
}

func (a *Analyzer) analyzeOne(
	ctx context.Context, path string, albumTokens []string, multiDisc bool, req AnalyzeRequest,
) dto.Candidate {
	candidate := dto.Candidate{
		Path:        path,
		Name:        filepath.Base(path),
		AlbumTokens: albumTokens,
		SourceType:  dto.SourceExternal,
	}

	if a.prober != nil {
		if width, height, ok := a.prober.Probe(ctx, path); ok {
			candidate.Width, candidate.Height = width, height
			candidate.Area = width * height
		}
	}

	if info, err := os.Stat(path); err == nil {
		candidate.SizeBytes = info.Size()
	}

	nameTokens := NormalizeTokens(strings.TrimSuffix(candidate.Name, filepath.Ext(candidate.Name)))

	candidate.PrefKeywordCount, candidate.KeywordRank = keywordHits(nameTokens)
	candidate.HasNonFront = hasNonFrontToken(nameTokens, albumTokens)
	candidate.NameTokenScore = TokenOverlap(nameTokens, albumTokens)

	if len(albumTokens) > 0 {
		candidate.OverlapRatio = min(1, float64(candidate.NameTokenScore)/float64(len(albumTokens)))
	}

	frontOK := candidate.PrefKeywordCount > 0 ||
		candidate.OverlapRatio*100 >= float64(a.settings.OverlapThresholdPct)
	shapeOK := a.settings.isSquarish(candidate.Width, candidate.Height) || candidate.Height > candidate.Width

	candidate.Bucket = bucketGeneral
	if shapeOK && !candidate.HasNonFront && frontOK {
		candidate.Bucket = bucketFront
	}

	candidate.Scope = ClassifyScope(path, req.EmbeddedPath, req.TrackDir, req.AlbumRoot, multiDisc)
	candidate.ScopeRank = ScopeRank(candidate.Scope)

	if candidate.Scope == dto.ScopeEmbedded {
		candidate.SourceType = dto.SourceEmbedded
		candidate.IsEmbedded = true
		candidate.RelDisplay = embeddedDisplay
	} else {
		candidate.RelDisplay = relativeDisplay(path, req.BaseRoot, req.Display)
	}

	return candidate
}

// DebugLine renders one candidate for the [ART] report.
func DebugLine(c dto.Candidate) string {
	return fmt.Sprintf(
		"path=%s res=%dx%d area=%.1fMP size=%.1fMB bucket=%d scope=%s kwpref=%d overlap=%.2f",
		c.RelDisplay, c.Width, c.Height,
		float64(c.Area)/1_000_000, float64(c.SizeBytes)/1_000_000,
		c.Bucket, c.Scope, c.PrefKeywordCount, c.OverlapRatio,
	)
}

func relativeDisplay(path, baseRoot string, display func(string) string) string {
	if parts := relativeParts(path, baseRoot); len(parts) > 0 {
		return filepath.Join(parts...)
	}

	if display == nil {
		return path
	}

	return display(path)
}
