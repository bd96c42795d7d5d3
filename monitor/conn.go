package monitor

import (
	"io"
	"time"
)

// Conn is a stream oriented connection to the device.
//
// A Read blocked longer than the read timeout returns zero bytes and a nil error.
type Conn interface {
	io.ReadCloser
	SetReadTimeout(t time.Duration) error
}

// OpenFunc opens a connection to portName at baudRate.
type OpenFunc func(portName string, baudRate int) (Conn, error)
