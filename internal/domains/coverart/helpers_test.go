package coverart

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeImage writes a real PNG of the given size.
func writeImage(t *testing.T, path string, width, height int) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.White)

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	err = png.Encode(file, img)
	if err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

type dims struct {
	width, height int
}

// mapProber answers from a fixed table and fails for unknown paths.
type mapProber map[string]dims

func (m mapProber) Probe(_ context.Context, path string) (int, int, bool) {
	d, ok := m[path]
	if !ok {
		return 0, 0, false
	}

	return d.width, d.height, true
}
