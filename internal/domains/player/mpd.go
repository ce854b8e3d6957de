package player

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
)

const fileURIPrefix = "file://"

// MPD drives a running MPD server. Staged files are added by absolute file
// URI, which MPD only accepts from local (unix socket) clients.
type MPD struct {
	network  string
	address  string
	password string
	logger   *logrus.Entry

	mutex  sync.Mutex
	client *mpd.Client
}

func dialMPD(address, password string, logger *logrus.Entry) (*MPD, error) {
	player := &MPD{
		network:  mpdNetwork(address),
		address:  address,
		password: password,
		logger:   logger.WithField("mpd", address),
	}

	player.mutex.Lock()
	defer player.mutex.Unlock()

	err := player.connectLocked()
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrFailedToStart, err)
	}

	return player, nil
}

// mpdNetwork picks unix for socket paths and tcp for host:port addresses.
func mpdNetwork(address string) string {
	if strings.HasPrefix(address, "/") || strings.HasPrefix(address, "@") {
		return "unix"
	}

	return "tcp"
}

func (m *MPD) connectLocked() error {
	var (
		client *mpd.Client
		err    error
	)

	if m.password != "" {
		client, err = mpd.DialAuthenticated(m.network, m.address, m.password)
	} else {
		client, err = mpd.Dial(m.network, m.address)
	}

	if err != nil {
		return err
	}

	m.client = client
	m.logger.Debug("Connected to MPD")

	return nil
}

// do runs fn with a live connection, reconnecting once if the old one died.
func (m *MPD) do(fn func(client *mpd.Client) error) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.client == nil || m.client.Ping() != nil {
		if m.client != nil {
			_ = m.client.Close()
			m.client = nil

			m.logger.Warn("MPD connection lost, reconnecting")
		}

		err := m.connectLocked()
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrMPDFailed, err)
		}
	}

	err := fn(m.client)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrMPDFailed, err)
	}

	return nil
}

func (m *MPD) Endpoint() string {
	return m.network + ":" + m.address
}

func (m *MPD) Running() bool {
	return m.do(func(client *mpd.Client) error { return client.Ping() }) == nil
}

func (m *MPD) Clear(_ context.Context) error {
	return m.do(func(client *mpd.Client) error { return client.Clear() })
}

func (m *MPD) Load(_ context.Context, path string, mode dto.LoadMode) error {
	return m.do(func(client *mpd.Client) error {
		if mode == dto.LoadReplace {
			err := client.Clear()
			if err != nil {
				return err
			}
		}

		err := client.Add(fileURIPrefix + path)
		if err != nil {
			return err
		}

		if mode == dto.LoadReplace {
			return client.Play(0)
		}

		status, err := client.Status()
		if err != nil {
			return err
		}

		if status["state"] != "stop" {
			return nil
		}

		length, err := strconv.Atoi(status["playlistlength"])
		if err != nil || length == 0 {
			return err
		}

		return client.Play(length - 1)
	})
}

func (m *MPD) Position(_ context.Context) (int, bool, error) {
	var (
		position int
		ok       bool
	)

	err := m.do(func(client *mpd.Client) error {
		status, err := client.Status()
		if err != nil {
			return err
		}

		position, ok = parseSongPosition(status)

		return nil
	})

	return position, ok, err
}

func parseSongPosition(status mpd.Attrs) (int, bool) {
	raw, found := status["song"]
	if !found {
		return 0, false
	}

	position, err := strconv.Atoi(raw)
	if err != nil || position < 0 {
		return 0, false
	}

	return position, true
}

func (m *MPD) CurrentPath(_ context.Context) (string, error) {
	var path string

	err := m.do(func(client *mpd.Client) error {
		song, err := client.CurrentSong()
		if err != nil {
			return err
		}

		path = strings.TrimPrefix(song["file"], fileURIPrefix)

		return nil
	})

	return path, err
}

// ReplayGain is empty: MPD reports the replay gain mode, not the gain it
// applies.
func (m *MPD) ReplayGain(_ context.Context) (string, error) {
	return "", nil
}

func (m *MPD) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.client == nil {
		return nil
	}

	err := m.client.Close()
	m.client = nil

	return err
}
