// Package wrapper implements compressed message framing over a base.Stream.
//
// Every message is compressed with shox96 as one complete buffer and sent
// with a 12-byte header, all fields big endian:
//   - Version (2 bytes): Always 0x0001
//   - Source (2 bytes): Logical address of sender
//   - Destination (2 bytes): Logical address of receiver
//   - Flags (2 bytes): bit 0 set when the payload is compressed
//   - Length (2 bytes): Original message length
//   - Payload length (2 bytes)
//
// A message that does not get smaller is sent as is.
//
// Usage:
//
//	transport := tcp.New("192.168.1.100", 4059, 5*time.Second)
//	stream, err := wrapper.New(transport, &wrapper.Settings{Source: 1, Destination: 2})
//	err = stream.Open()
//	err = stream.Write([]byte("status?"))
//	reply, err := io.ReadAll(stream) // flushes the request first
package wrapper

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cybroslabs/libshox-go/base"
	"github.com/cybroslabs/libshox-go/shox96"
	"go.uber.org/zap"
	"k8s.io/utils/ptr"
)

const (
	headerLength   = 12
	headerVersion  = 0x0001
	flagCompressed = 0x0001
	maxMessageSize = 65535
)

// Settings of the framing layer, nil pointers take defaults.
type Settings struct {
	Source         uint16
	Destination    uint16
	Compression    *bool // default true
	MaxMessageSize *int  // default and upper limit 65535
}

// Stream is a base.Stream sending one frame per message.
type Stream interface {
	base.Stream
	Flush() error // sends the pending message, Read does that too
}

type wrapper struct {
	transport   base.Stream
	logger      *zap.SugaredLogger
	source      uint16
	destination uint16
	compression bool
	maxmessage  int
	header      [headerLength]byte
	outgoing    []byte // pending plain message
	frame       []byte // header and payload, both directions
	incoming    []byte // received plain message
	offset      int
	inmessage   bool
}

func (w *wrapper) logf(format string, v ...any) {
	if w.logger != nil {
		w.logger.Infof(format, v...)
	}
}

// New creates the framing layer around the provided transport stream.
func New(transport base.Stream, settings *Settings) (Stream, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	maxmessage := ptr.Deref(settings.MaxMessageSize, maxMessageSize)
	if maxmessage <= 0 || maxmessage > maxMessageSize {
		return nil, fmt.Errorf("invalid max message size %d, allowed 1..%d", maxmessage, maxMessageSize)
	}
	return &wrapper{
		transport:   transport,
		source:      settings.Source,
		destination: settings.Destination,
		compression: ptr.Deref(settings.Compression, true),
		maxmessage:  maxmessage,
		frame:       make([]byte, 0, 2048),
	}, nil
}

func (w *wrapper) Close() error {
	return w.transport.Close()
}

func (w *wrapper) Disconnect() error {
	w.outgoing = w.outgoing[:0]
	w.inmessage = false
	return w.transport.Disconnect()
}

func (w *wrapper) Open() error {
	w.logf("Opening wrapper with source %d and destination %d, compression %v", w.source, w.destination, w.compression)
	return w.transport.Open()
}

func (w *wrapper) IsOpen() bool {
	return w.transport.IsOpen()
}

func (w *wrapper) SetMaxReceivedBytes(m int64) {
	w.transport.SetMaxReceivedBytes(m)
}

func (w *wrapper) SetTimeout(to time.Duration) {
	w.transport.SetTimeout(to)
}

func (w *wrapper) SetDeadline(t time.Time) {
	w.transport.SetDeadline(t)
}

func (w *wrapper) SetLogger(logger *zap.SugaredLogger) {
	w.logger = logger
	w.transport.SetLogger(logger)
}

func (w *wrapper) GetRxTxBytes() (int64, int64) {
	return w.transport.GetRxTxBytes()
}

// Write appends src to the pending message, nothing is sent yet.
func (w *wrapper) Write(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if len(w.outgoing)+len(src) > w.maxmessage {
		return fmt.Errorf("message size %d, max %d: %w", len(w.outgoing)+len(src), w.maxmessage, base.ErrMessageTooBig)
	}
	// unread rest of the previous answer is dropped
	w.inmessage = false
	w.incoming = w.incoming[:0]
	w.offset = 0

	w.outgoing = append(w.outgoing, src...)
	return nil
}

func (w *wrapper) Flush() error {
	if len(w.outgoing) == 0 {
		return nil
	}

	flags := uint16(0)
	w.frame = append(w.frame[:0], w.header[:]...)
	if w.compression {
		w.frame = shox96.Compress(w.frame, w.outgoing)
		if len(w.frame)-headerLength < len(w.outgoing) {
			flags |= flagCompressed
		}
	}
	if flags&flagCompressed == 0 {
		w.frame = append(w.frame[:headerLength], w.outgoing...)
	}
	payload := len(w.frame) - headerLength

	putuint16(w.frame[0:], headerVersion)
	putuint16(w.frame[2:], w.source)
	putuint16(w.frame[4:], w.destination)
	putuint16(w.frame[6:], flags)
	putuint16(w.frame[8:], uint16(len(w.outgoing)))
	putuint16(w.frame[10:], uint16(payload))

	if w.logger != nil {
		w.logger.Debugf("Sending message %d bytes as %d bytes payload, flags %04x", len(w.outgoing), payload, flags)
	}
	err := w.transport.Write(w.frame)
	if err != nil {
		return err
	}

	w.outgoing = w.outgoing[:0]
	return nil
}

// receive reads one whole frame and unpacks its message
func (w *wrapper) receive() error {
	_, err := io.ReadFull(w.transport, w.header[:])
	if err != nil {
		return err
	}

	if getuint16(w.header[0:]) != headerVersion {
		return fmt.Errorf("invalid header version %04x", getuint16(w.header[0:]))
	}
	rsrc := getuint16(w.header[2:])
	rdest := getuint16(w.header[4:])
	if rsrc != w.destination || rdest != w.source {
		return fmt.Errorf("invalid source or destination: %d -> %d", rsrc, rdest)
	}
	flags := getuint16(w.header[6:])
	if flags&^flagCompressed != 0 {
		return fmt.Errorf("unsupported flags %04x", flags)
	}
	length := int(getuint16(w.header[8:]))
	if length > w.maxmessage {
		return fmt.Errorf("message size %d, max %d: %w", length, w.maxmessage, base.ErrMessageTooBig)
	}
	payload := int(getuint16(w.header[10:]))

	w.frame = resize(w.frame, payload)
	_, err = io.ReadFull(w.transport, w.frame)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	w.incoming = resize(w.incoming, length)
	if flags&flagCompressed != 0 {
		n, err := shox96.DecompressTo(w.incoming, w.frame)
		if err != nil {
			return fmt.Errorf("message decompression failed: %w", err)
		}
		if n != length {
			return fmt.Errorf("message decompressed to %d bytes instead of %d: %w", n, length, base.ErrCorruptStream)
		}
	} else {
		if payload != length {
			return fmt.Errorf("stored message length mismatch %d != %d: %w", payload, length, base.ErrCorruptStream)
		}
		copy(w.incoming, w.frame)
	}

	if w.logger != nil {
		w.logger.Debugf("Received message %d bytes from %d bytes payload, flags %04x", length, payload, flags)
	}
	w.offset = 0
	w.inmessage = true
	return nil
}

// Read serves the current message, io.EOF marks its end. The pending outgoing
// message is flushed first.
func (w *wrapper) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, base.ErrNothingToRead
	}
	if err = w.Flush(); err != nil {
		return
	}

	if !w.inmessage {
		if err = w.receive(); err != nil {
			return
		}
	}
	if w.offset == len(w.incoming) {
		w.inmessage = false
		return 0, io.EOF
	}
	n = copy(p, w.incoming[w.offset:])
	w.offset += n
	return
}

func resize(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

func putuint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getuint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
