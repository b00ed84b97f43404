package base

import (
	"time"

	"go.uber.org/zap"
)

// Stream is a byte transport carrying compressed or plain messages.
type Stream interface {
	Close() error
	Open() error
	Disconnect() error // hard end of connection without any goodbye exchange
	IsOpen() bool
	SetLogger(logger *zap.SugaredLogger)
	SetTimeout(t time.Duration)  // timeout of every single read or write
	SetDeadline(t time.Time)     // zero time means no deadline
	SetMaxReceivedBytes(m int64) // every call resets current counter, exceeding bytes count means comm error, only incomming bytes are counted
	Read(p []byte) (n int, err error)
	Write(src []byte) error // always write everything
	GetRxTxBytes() (int64, int64)
}
