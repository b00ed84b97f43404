// Package tcp implements base.Stream over a TCP connection.
package tcp

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/cybroslabs/libshox-go/base"
	"go.uber.org/zap"
)

type tcp struct {
	hostname        string
	port            int
	logger          *zap.SugaredLogger
	connected       bool
	timeout         time.Duration
	conn            net.Conn
	offset          int
	read            int
	buffer          []byte
	deadline        time.Time
	totalincoming   int64
	totaloutgoing   int64
	currentincoming int64
	maxincoming     int64
}

// New returns a stream dialing hostname:port on Open.
func New(hostname string, port int, timeout time.Duration) base.Stream {
	return &tcp{
		hostname:  hostname,
		port:      port,
		timeout:   timeout,
		buffer:    make([]byte, 2048),
		connected: false,
	}
}

// NewConn wraps an already established connection, typically an accepted one.
func NewConn(conn net.Conn, timeout time.Duration) base.Stream {
	return &tcp{
		hostname:  conn.RemoteAddr().String(),
		timeout:   timeout,
		conn:      conn,
		buffer:    make([]byte, 2048),
		connected: true,
	}
}

func (t *tcp) logf(format string, v ...any) {
	if t.logger != nil {
		t.logger.Infof(format, v...)
	}
}

func (t *tcp) Close() error {
	return nil // nothing to say goodbye with, Disconnect closes the socket
}

func (t *tcp) Open() error {
	if t.connected {
		return nil
	}
	address := net.JoinHostPort(t.hostname, strconv.Itoa(t.port))

	conn, err := net.DialTimeout("tcp", address, t.timeout)
	if err != nil {
		t.logf("Connect to %s failed: %v", address, err)
		return fmt.Errorf("connect failed: %w", err)
	}

	t.logf("Connected to %s", address)
	t.conn = conn
	t.connected = true
	t.offset = 0
	t.read = 0
	return nil
}

func (t *tcp) Disconnect() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
	}

	t.logf("Disconnected from %s", t.hostname)
	t.logf("Total bytes incoming: %v, outgoing: %v", t.totalincoming, t.totaloutgoing)
	return nil
}

func (t *tcp) IsOpen() bool {
	return t.connected
}

func (t *tcp) SetMaxReceivedBytes(m int64) {
	t.currentincoming = 0
	t.maxincoming = m
}

func (t *tcp) SetTimeout(to time.Duration) {
	t.timeout = to
}

func (t *tcp) SetDeadline(d time.Time) {
	t.deadline = d
}

func (t *tcp) SetLogger(logger *zap.SugaredLogger) {
	t.logger = logger
}

func (t *tcp) GetRxTxBytes() (int64, int64) {
	return t.totalincoming, t.totaloutgoing
}

// setcommdeadline uses the sooner of the operation timeout and the overall deadline
func (t *tcp) setcommdeadline() {
	cd := time.Now().Add(t.timeout)
	if !t.deadline.IsZero() && t.deadline.Before(cd) {
		cd = t.deadline
	}
	_ = t.conn.SetDeadline(cd)
}

func (t *tcp) Write(src []byte) error {
	if !t.connected {
		return base.ErrNotOpened
	}

	for len(src) > 0 {
		t.setcommdeadline()
		n, err := t.conn.Write(src)
		t.totaloutgoing += int64(n)
		if t.logger != nil && n > 0 {
			t.logger.Debugf("TX (%s): %6d %s", t.hostname, n, encodeHexString(src[:n]))
		}
		if err != nil {
			return commerror("write", err)
		}
		src = src[n:]
	}
	return nil
}

func (t *tcp) Read(p []byte) (n int, err error) {
	if !t.connected {
		return 0, base.ErrNotOpened
	}
	if len(p) == 0 {
		return 0, base.ErrNothingToRead
	}

	n = len(p)
	rem := t.read - t.offset
	if rem > 0 { // having something unread in the buffer
		if n > rem {
			n = rem
		}
		copy(p, t.buffer[t.offset:t.offset+n])
		t.offset += n
		return
	}

	t.setcommdeadline()
	rx, err := t.conn.Read(t.buffer)
	t.totalincoming += int64(rx)
	t.currentincoming += int64(rx)
	if t.maxincoming > 0 && t.currentincoming > t.maxincoming {
		return 0, fmt.Errorf("received more than allowed: %d > %d", t.currentincoming, t.maxincoming)
	}

	if rx > 0 {
		t.read = rx
		if n > rx {
			n = rx
		}
		copy(p, t.buffer[:n])
		t.offset = n

		if t.logger != nil {
			t.logger.Debugf("RX (%s): %6d %s", t.hostname, rx, encodeHexString(t.buffer[:rx]))
		}
		return n, nil // keep data, next read reports a possible error
	}

	if err != nil {
		return 0, commerror("read", err)
	}
	return 0, io.EOF
}

func commerror(op string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%s failed: %w", op, base.ErrCommunicationTimeout)
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func encodeHexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
