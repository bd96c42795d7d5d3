// Package monitor reads newline terminated text lines from a microcontroller
// connected over a serial port and prints them.
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
)

const readBufSize = 4096

// State represents the state of a reader.
type State byte

// Reader states.
const (
	StUnopened State = iota
	StSettling
	StReading
	StClosed
)

var stTexts = []string{"unopened", "settling", "reading", "closed"}

func (s State) String() string {
	if int(s) >= len(stTexts) {
		return "unknown"
	}
	return stTexts[s]
}

// Reader reads lines from a connection and writes them to an output.
// A Reader is not safe for concurrent use.
type Reader struct {
	cfg   Config
	open  OpenFunc
	out   io.Writer
	state State

	lines, skipped int
}

// NewReader returns a new reader instance.
func NewReader(cfg *Config, open OpenFunc, out io.Writer) *Reader {
	return &Reader{cfg: *cfg, open: open, out: out}
}

// State returns the current reader state.
func (r *Reader) State() State { return r.state }

// Lines returns the number of lines printed.
func (r *Reader) Lines() int { return r.lines }

// Skipped returns the number of malformed lines dropped.
func (r *Reader) Skipped() int { return r.skipped }

func (r *Reader) setState(s State) {
	glog.V(2).Infof("reader %s: %s -> %s", r.cfg.PortName, r.state, s)
	r.state = s
}

// Run opens the connection, waits for the device to settle and prints lines until ctx is done
// or an error occurs.
//
// Run returns nil if it was stopped by ctx, an *OpenError if the connection could not be
// opened and the cause of the failure otherwise. The connection is closed on return.
func (r *Reader) Run(ctx context.Context) error {
	conn, err := r.open(r.cfg.PortName, r.cfg.BaudRate)
	if err != nil {
		openErr := newOpenError(r.cfg.PortName, err)
		r.setState(StClosed)
		glog.Error(openErr)
		fmt.Fprint(r.out, formatOpenFailure(openErr))
		return openErr
	}
	defer r.close(conn)

	r.setState(StSettling)
	if err := conn.SetReadTimeout(r.cfg.ReadTimeout); err != nil {
		return r.fail(fmt.Errorf("set read timeout: %w", err))
	}
	if err := sleep(ctx, r.cfg.SettleDelay); err != nil {
		return r.stop()
	}
	fmt.Fprintf(r.out, "connected to port %s, receiving data...\n", r.cfg.PortName)
	fmt.Fprintln(r.out, "press Ctrl+C to quit.")

	r.setState(StReading)
	err = r.readLoop(ctx, conn)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return r.stop()
	}
	return r.fail(err)
}

func (r *Reader) close(conn Conn) {
	if err := conn.Close(); err != nil {
		glog.Warningf("close %s: %s", r.cfg.PortName, err)
	}
	r.setState(StClosed)
}

func (r *Reader) stop() error {
	fmt.Fprintln(r.out, "\nstopping.")
	return nil
}

func (r *Reader) fail(err error) error {
	glog.Error(err)
	fmt.Fprintf(r.out, "unexpected error: %s\n", err)
	return err
}

func (r *Reader) readLoop(ctx context.Context, conn Conn) error {
	buf := make([]byte, readBufSize)
	var pending []byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := conn.Read(buf)
		if n > 0 {
			glog.V(3).Infof("read %d bytes", n)
			var ferr error
			if pending, ferr = r.flush(append(pending, buf[:n]...)); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			return err
		}
	}
}

// flush prints the complete lines of pending and returns the remaining partial line.
func (r *Reader) flush(pending []byte) ([]byte, error) {
	rest := pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		if err := r.emit(rest[:i+1]); err != nil {
			return nil, err
		}
		rest = rest[i+1:]
	}
	if len(rest) > r.cfg.MaxLineLen {
		return nil, fmt.Errorf("%w: %d bytes without newline", ErrLineTooLong, len(rest))
	}
	n := copy(pending, rest)
	return pending[:n], nil
}

func (r *Reader) emit(line []byte) error {
	s, err := decodeLine(line)
	if err != nil {
		var decodeErr *DecodeError
		if r.cfg.SkipMalformed && errors.As(err, &decodeErr) {
			glog.Warningf("skip line: %s", err)
			r.skipped++
			return nil
		}
		return err
	}
	if _, err := fmt.Fprintln(r.out, s); err != nil {
		return err
	}
	r.lines++
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
