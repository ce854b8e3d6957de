package player

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dexterlb/mpvipc"
)

const (
	ipcTimeout     = 2 * time.Second
	ipcUnavailable = "property unavailable"
	mpvErrorPrefix = "mpv error"
)

// IPCClient talks to mpv's JSON IPC socket over one mpvipc connection. The
// connection is dialed on first use and redialed after a transport failure.
type IPCClient struct {
	socket  string
	timeout time.Duration

	mutex sync.Mutex
	conn  *mpvipc.Connection
}

func NewIPCClient(socket string) *IPCClient {
	return &IPCClient{socket: socket, timeout: ipcTimeout}
}

func (c *IPCClient) connection() (*mpvipc.Connection, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn := mpvipc.NewConnection(c.socket)

	err := conn.Open()
	if err != nil {
		return nil, err
	}

	c.conn = conn

	return conn, nil
}

// drop forgets conn so the next request dials again.
func (c *IPCClient) drop(conn *mpvipc.Connection) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.conn == conn {
		c.conn = nil
	}

	_ = conn.Close()
}

// Command runs one mpv command and returns its data field.
func (c *IPCClient) Command(ctx context.Context, args ...any) (any, error) {
	conn, err := c.connection()
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrIPCFailed, err)
	}

	data, err := callWithTimeout(ctx, conn, c.timeout, args...)
	if err != nil {
		if isCommandError(err) {
			return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrIPCCommand, err)
		}

		c.drop(conn)

		return nil, fmt.Errorf("%w: %w (%w)", ErrPlayer, ErrIPCFailed, err)
	}

	return data, nil
}

// GetProperty reads one property. A missing property yields nil data.
func (c *IPCClient) GetProperty(ctx context.Context, name string) (any, error) {
	data, err := c.Command(ctx, "get_property", name)
	if err != nil {
		if isUnavailable(err) {
			return nil, nil
		}

		return nil, err
	}

	return data, nil
}

func (c *IPCClient) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return err
}

// callWithTimeout bounds conn.Call, which waits for a reply forever when mpv
// goes away mid-request.
func callWithTimeout(ctx context.Context, conn *mpvipc.Connection, timeout time.Duration, args ...any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		data any
		err  error
	}

	replies := make(chan reply, 1)

	go func() {
		data, err := conn.Call(args...)
		replies <- reply{data: data, err: err}
	}()

	select {
	case r := <-replies:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isCommandError(err error) bool {
	return strings.HasPrefix(err.Error(), mpvErrorPrefix)
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrIPCCommand) && strings.Contains(err.Error(), ipcUnavailable)
}

// parsePosition decodes playlist-pos. Null and negative values mean nothing
// is selected.
func parsePosition(data any) (int, bool) {
	position, ok := data.(float64)
	if !ok || position < 0 {
		return 0, false
	}

	return int(position), true
}

func parseString(data any) string {
	value, _ := data.(string)

	return value
}

// parseGain renders the replaygain-track-gain property. mpv reports a number
// of decibels; strings are passed through.
func parseGain(data any) string {
	switch value := data.(type) {
	case string:
		if value == "null" {
			return ""
		}

		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64) + " dB"
	default:
		return ""
	}
}
