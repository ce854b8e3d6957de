package coverart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"source.hodakov.me/hdkv/mpvtunes/internal/formats"
)

const preferredCoverName = "cover.png"

// Installer places the winning image next to the staged track under a name
// the player's cover-art lookup finds.
type Installer struct {
	converter Converter
	symlink   func(oldname, newname string) error
}

func NewInstaller(converter Converter) *Installer {
	return &Installer{converter: converter, symlink: os.Symlink}
}

// Install links PNG images as cover.png, converts other formats to
// cover.png and, when conversion fails, links the original under
// cover.<ext>. Other symlinks in stageDir are removed. It returns the
// installed path.
func (i *Installer) Install(ctx context.Context, source, stageDir string) (string, error) {
	err := os.MkdirAll(stageDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrInstallFailed, err)
	}

	target := filepath.Join(stageDir, preferredCoverName)

	if formats.Extension(source) != "png" && i.converter != nil {
		_ = os.Remove(target)

		err = i.converter.Convert(ctx, source, target)
		if err == nil {
			removeStraySymlinks(stageDir, preferredCoverName)

			return target, nil
		}

		target = filepath.Join(stageDir, "cover."+formats.Extension(source))
	}

	err = i.linkOrCopy(source, target)
	if err != nil {
		return "", fmt.Errorf("%w: %w (%w)", ErrCoverArt, ErrInstallFailed, err)
	}

	removeStraySymlinks(stageDir, filepath.Base(target))

	return target, nil
}

// linkOrCopy falls back to a plain copy where symlinks are refused.
func (i *Installer) linkOrCopy(source, target string) error {
	if filepath.Clean(source) == filepath.Clean(target) {
		return nil
	}

	_ = os.Remove(target)

	err := i.symlink(source, target)
	if err == nil {
		return nil
	}

	return copyFile(source, target)
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()

	if err != nil {
		return err
	}

	return closeErr
}

func removeStraySymlinks(dir, keep string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.Name() == keep || entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		_ = os.Remove(filepath.Join(dir, entry.Name()))
	}
}
