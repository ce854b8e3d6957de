package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
)

func touch(t *testing.T, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// makeLibrary creates albums named a00, a01, ... each holding tracksPerAlbum
// flac files.
func makeLibrary(t *testing.T, albums, tracksPerAlbum int) string {
	t.Helper()

	root := t.TempDir()

	for album := range albums {
		for track := range tracksPerAlbum {
			touch(t, filepath.Join(root, albumName(album), trackName(track)))
		}
	}

	return root
}

func albumName(i int) string {
	return "a" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func trackName(i int) string {
	return string(rune('0'+i/10)) + string(rune('0'+i%10)) + ".flac"
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	return logrus.NewEntry(logger)
}

func newTestLibrary(t *testing.T, mutate func(*configuration.Config)) *Library {
	t.Helper()

	cfg := configuration.Default()
	mutate(cfg)

	app := application.New(context.Background())
	app.SetConfig(cfg)

	library := New(app)
	if err := library.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	return library
}
