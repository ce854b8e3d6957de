package coverart

import (
	"testing"

	"source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
)

func TestClassifyScope(t *testing.T) {
	const (
		album    = "/music/Artist - Album"
		discOne  = album + "/CD1"
		embedded = "/tmp/stage/0/embedded-cover.png"
	)

	testCases := []struct {
		name      string
		path      string
		trackDir  string
		albumRoot string
		multiDisc bool
		expected  string
	}{
		{"embedded", embedded, discOne, album, true, dto.ScopeEmbedded},
		{"no root, same dir", "/loose/dir/front.jpg", "/loose/dir", "", false, dto.ScopeTrackFolder},
		{"no root, nested", "/loose/dir/scans/front.jpg", "/loose/dir", "", false, dto.ScopeTrackFolder},
		{"no root, elsewhere", "/other/front.jpg", "/loose/dir", "", false, dto.ScopeExternal},
		{"single disc, inside", album + "/Scans/front.jpg", album, album, false, dto.ScopeTrackFolder},
		{"single disc, outside", "/music/Other/front.jpg", album, album, false, dto.ScopeExternal},
		{"multi disc, own disc", discOne + "/cover.jpg", discOne, album, true, dto.ScopeTrackFolder},
		{"multi disc, own disc nested", discOne + "/art/cover.jpg", discOne + "/art", album, true, dto.ScopeTrackFolder},
		{"multi disc, loose root file", album + "/folder.jpg", discOne, album, true, dto.ScopeAlbumRoot},
		{"multi disc, other disc", album + "/Disc 2/cover.jpg", discOne, album, true, dto.ScopeOtherDisc},
		{"multi disc, other disc underscore", album + "/cd_03/cover.jpg", discOne, album, true, dto.ScopeOtherDisc},
		{"multi disc, shared folder", album + "/Artwork/front.jpg", discOne, album, true, dto.ScopeAlbumRoot},
		{"multi disc, outside", "/music/Other/front.jpg", discOne, album, true, dto.ScopeExternal},
		{"prefix sibling is outside", album + " (Deluxe)/front.jpg", album, album, false, dto.ScopeExternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyScope(tc.path, embedded, tc.trackDir, tc.albumRoot, tc.multiDisc)
			if got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestScopeRank(t *testing.T) {
	ranks := map[string]int{
		dto.ScopeEmbedded:    0,
		dto.ScopeTrackFolder: 1,
		dto.ScopeAlbumRoot:   2,
		dto.ScopeExternal:    2,
		dto.ScopeOtherDisc:   3,
	}

	for scope, expected := range ranks {
		if got := ScopeRank(scope); got != expected {
			t.Errorf("%s: expected %d, got %d", scope, expected, got)
		}
	}
}

func TestIsMultiDisc(t *testing.T) {
	if !IsMultiDisc("/music/A/CD1", "/music/A") {
		t.Error("disc subfolder should be multi-disc")
	}
	if IsMultiDisc("/music/A", "/music/A") {
		t.Error("album root itself is not multi-disc")
	}
	if IsMultiDisc("/music/A", "") {
		t.Error("unknown root is not multi-disc")
	}
	if IsMultiDisc("/music/AB/CD1", "/music/A") {
		t.Error("prefix sibling is not a descendant")
	}
}
