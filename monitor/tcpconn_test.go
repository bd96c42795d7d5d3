package monitor_test

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pico-cs/go-serialmon/monitor"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a writing reader and a polling test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func listen(t *testing.T) (net.Listener, <-chan net.Conn) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	connCh := make(chan net.Conn, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			close(connCh)
			return
		}
		connCh <- conn
	}()
	return l, connCh
}

func TestTCPConnReadTimeout(t *testing.T) {
	l, connCh := listen(t)

	c, err := monitor.OpenTCP(l.Addr().String())
	require.NoError(t, err)
	defer c.Close()
	peer := <-connCh
	defer peer.Close()

	require.NoError(t, c.SetReadTimeout(20*time.Millisecond))
	buf := make([]byte, 16)
	n, err := c.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = peer.Write([]byte("x\n"))
	require.NoError(t, err)
	n, err = c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "x\n", string(buf[:n]))
}

func TestTCPConnReader(t *testing.T) {
	l, connCh := listen(t)

	cfg := testConfig(l.Addr().String())
	cfg.ReadTimeout = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- monitor.NewReader(cfg, monitor.TCPOpener, out).Run(ctx) }()

	peer := <-connCh
	defer peer.Close()
	_, err := peer.Write([]byte("Hello\r\nWorld\r\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "World\n") }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for reader to stop")
	}
	require.Contains(t, out.String(), "Hello\nWorld\n")
	require.Contains(t, out.String(), "stopping.")
}

func TestTCPConnOpenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	var out bytes.Buffer
	err = monitor.NewReader(testConfig(addr), monitor.TCPOpener, &out).Run(context.Background())
	var openErr *monitor.OpenError
	require.ErrorAs(t, err, &openErr)
	require.Contains(t, out.String(), addr)
}
