package formats

import "testing"

func TestClassification(t *testing.T) {
	testCases := []struct {
		path     string
		audio    bool
		image    bool
		playlist bool
	}{
		{"/music/a/01 Intro.FLAC", true, false, false},
		{"track.opus", true, false, false},
		{"Cover.JPG", false, true, false},
		{"scan.tif", false, true, false},
		{"favourites.m3u8", false, false, true},
		{"album.cue", false, false, true},
		{"notes.txt", false, false, false},
		{"noext", false, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := IsAudio(tc.path); got != tc.audio {
				t.Errorf("IsAudio = %v, expected %v", got, tc.audio)
			}
			if got := IsImage(tc.path); got != tc.image {
				t.Errorf("IsImage = %v, expected %v", got, tc.image)
			}
			if got := IsPlaylist(tc.path); got != tc.playlist {
				t.Errorf("IsPlaylist = %v, expected %v", got, tc.playlist)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if got := Extension("/a/b.c/Front.PNG"); got != "png" {
		t.Errorf("Expected png, got %s", got)
	}
	if got := Extension("/a/b.c/README"); got != "" {
		t.Errorf("Expected empty extension, got %s", got)
	}
}
