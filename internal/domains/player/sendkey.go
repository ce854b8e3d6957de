package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dexterlb/mpvipc"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSocketGlob = "/tmp/mpv-*"
	sendKeyTimeout    = 300 * time.Millisecond
)

// ActionCommand maps a media key action to the mpv command it triggers.
func ActionCommand(action string) ([]any, error) {
	switch strings.ToLower(action) {
	case "pause", "play", "playpause", "toggle":
		return []any{"cycle", "pause"}, nil
	case "next", "n", "forward":
		return []any{"playlist-next", "weak"}, nil
	case "prev", "previous", "p", "back":
		return []any{"playlist-prev", "weak"}, nil
	default:
		return nil, fmt.Errorf("%w: %w (%s)", ErrPlayer, ErrUnknownAction, action)
	}
}

// SendKey sends action to every mpv socket matching pattern and returns how
// many sockets accepted it. Sockets nobody listens on are deleted.
func SendKey(action, pattern string, logger *logrus.Entry) (int, error) {
	command, err := ActionCommand(action)
	if err != nil {
		return 0, err
	}

	if pattern == "" {
		pattern = DefaultSocketGlob
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrIPCFailed, err)
	}

	logger.WithFields(logrus.Fields{
		"glob":    pattern,
		"matches": matches,
	}).Debug("Socket glob expanded")

	sent := 0

	for _, path := range matches {
		if !isSocket(path) {
			continue
		}

		err := sendToSocket(path, command)
		switch {
		case err == nil:
			sent++
		case isConnRefused(err):
			removeErr := os.Remove(path)
			logger.WithError(removeErr).WithField("socket", path).Debug("Removed stale socket")
		default:
			logger.WithError(err).WithField("socket", path).Debug("Failed to talk to socket")
		}
	}

	return sent, nil
}

func isSocket(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSocket != 0
}

// isConnRefused also matches dial errors that were flattened to text.
func isConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), syscall.ECONNREFUSED.Error())
}

func sendToSocket(path string, command []any) error {
	conn := mpvipc.NewConnection(path)

	err := conn.Open()
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = callWithTimeout(context.Background(), conn, sendKeyTimeout, command...)

	return err
}
