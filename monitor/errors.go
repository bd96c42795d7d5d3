package monitor

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"go.bug.st/serial"
)

// ErrLineTooLong is returned if the device sends more than the configured maximum without a newline.
var ErrLineTooLong = errors.New("line too long")

// OpenErrorKind classifies why a connection could not be opened.
type OpenErrorKind byte

// Open error kinds.
const (
	OkOther OpenErrorKind = iota
	OkNotFound
	OkBusy
	OkPermission
	OkInvalidPort
)

var okTexts = []string{"open failed", "port not found", "port busy", "permission denied", "invalid port"}

func (k OpenErrorKind) String() string {
	if int(k) >= len(okTexts) {
		return okTexts[OkOther]
	}
	return okTexts[k]
}

func classifyOpenError(err error) OpenErrorKind {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			return OkNotFound
		case serial.PortBusy:
			return OkBusy
		case serial.PermissionDenied:
			return OkPermission
		case serial.InvalidSerialPort:
			return OkInvalidPort
		}
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return OkNotFound
	case errors.Is(err, fs.ErrPermission):
		return OkPermission
	}
	return OkOther
}

// OpenError is returned if the connection to the device could not be established.
type OpenError struct {
	PortName string
	Kind     OpenErrorKind
	Err      error
}

func newOpenError(portName string, err error) *OpenError {
	return &OpenError{PortName: portName, Kind: classifyOpenError(err), Err: err}
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open port %s: %s: %s", e.PortName, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Hints returns the likely causes of the failure, most probable first.
func (e *OpenError) Hints() []string {
	hints := []string{
		"check that the device is connected to this computer",
		"check that the port name is correct",
		"close other programs using the port (e.g. a serial monitor)",
	}
	switch e.Kind {
	case OkBusy:
		hints[0], hints[2] = hints[2], hints[0]
	case OkPermission:
		hints = append([]string{"check that the current user may access the port (e.g. dialout group)"}, hints...)
	case OkInvalidPort:
		hints[0], hints[1] = hints[1], hints[0]
	}
	return hints
}

// DecodeError is returned if a line is not valid UTF-8.
type DecodeError struct {
	Line []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid utf-8 sequence at byte %d in line %q", invalidOffset(e.Line), e.Line)
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func formatOpenFailure(e *OpenError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: could not open port %s.\n", e.PortName)
	for _, hint := range e.Hints() {
		fmt.Fprintf(&b, "- %s\n", hint)
	}
	fmt.Fprintf(&b, "detail: %s\n", e.Err)
	return b.String()
}
