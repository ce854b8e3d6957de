package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
)

const (
	socketWaitTimeout  = 5 * time.Second
	socketPollInterval = 100 * time.Millisecond
	quitTimeout        = time.Second
)

type mpvOptions struct {
	Binary         string
	SocketDir      string
	Normalize      bool
	AdditionalArgs []string
}

// MPV is an mpv process controlled over its IPC socket.
type MPV struct {
	socket string
	ipc    *IPCClient
	logger *logrus.Entry

	cmd  *exec.Cmd
	done chan struct{}
}

// mpvArgs builds mpv's command line. User arguments come first so ours win.
func mpvArgs(socket string, normalize bool, additional []string) []string {
	args := append([]string{}, additional...)
	args = append(args,
		"--force-window=immediate",
		"--idle=yes",
		"--keep-open=yes",
		"--input-ipc-server="+socket,
		"--cover-art-auto=exact",
	)

	if normalize {
		return append(args, "--replaygain=track", "--replaygain-clip=yes")
	}

	return append(args, "--replaygain=no")
}

// socketPath is the per-process IPC socket, matched by send-key's default
// glob.
func socketPath(dir string, pid int) string {
	if dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, fmt.Sprintf("mpv-%d.sock", pid))
}

func startMPV(ctx context.Context, options mpvOptions, logger *logrus.Entry) (*MPV, error) {
	binary := options.Binary
	if binary == "" {
		binary = BackendMPV
	}

	binaryPath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrFailedToStart, err)
	}

	socket := socketPath(options.SocketDir, os.Getpid())
	_ = os.Remove(socket)

	args := mpvArgs(socket, options.Normalize, options.AdditionalArgs)

	logger.WithField("mpv command", binaryPath+" "+strings.Join(args, " ")).Debug("mpv parameters")

	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrFailedToStart, err)
	}

	mpv := &MPV{
		socket: socket,
		ipc:    NewIPCClient(socket),
		logger: logger,
		cmd:    cmd,
		done:   make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(mpv.done)
	}()

	err = waitForSocket(ctx, socket, mpv.done, socketWaitTimeout)
	if err != nil {
		_ = mpv.Close()

		return nil, err
	}

	return mpv, nil
}

// waitForSocket polls until socket exists, the process exits or the timeout
// passes.
func waitForSocket(ctx context.Context, socket string, exited <-chan struct{}, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(socketPollInterval)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(socket); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrPlayer, ctx.Err())
		case <-exited:
			return fmt.Errorf("%w: %w (%s)", ErrPlayer, ErrFailedToStart, "mpv exited before opening its IPC socket")
		case <-timer.C:
			return fmt.Errorf("%w: %w (%s)", ErrPlayer, ErrSocketTimeout, socket)
		case <-ticker.C:
		}
	}
}

func (m *MPV) Endpoint() string {
	return m.socket
}

func (m *MPV) Running() bool {
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

func (m *MPV) Clear(ctx context.Context) error {
	_, err := m.ipc.Command(ctx, "playlist-clear")

	return err
}

func (m *MPV) Load(ctx context.Context, path string, mode dto.LoadMode) error {
	_, err := m.ipc.Command(ctx, "loadfile", path, string(mode))

	return err
}

func (m *MPV) Position(ctx context.Context) (int, bool, error) {
	data, err := m.ipc.GetProperty(ctx, "playlist-pos")
	if err != nil {
		return 0, false, err
	}

	position, ok := parsePosition(data)

	return position, ok, nil
}

func (m *MPV) CurrentPath(ctx context.Context) (string, error) {
	data, err := m.ipc.GetProperty(ctx, "path")
	if err != nil {
		return "", err
	}

	return parseString(data), nil
}

func (m *MPV) ReplayGain(ctx context.Context) (string, error) {
	data, err := m.ipc.GetProperty(ctx, "current-tracks/audio/replaygain-track-gain")
	if err != nil {
		return "", err
	}

	return parseGain(data), nil
}

// Close asks mpv to quit, kills it if it does not, and removes the socket.
func (m *MPV) Close() error {
	defer func() {
		_ = m.ipc.Close()
		_ = os.Remove(m.socket)
	}()

	if !m.Running() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
	defer cancel()

	_, err := m.ipc.Command(ctx, "quit")
	if err != nil {
		m.logger.WithError(err).Debug("mpv did not accept quit")
	}

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
	}

	err = m.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("%w: %w", ErrPlayer, err)
	}

	<-m.done

	return nil
}
