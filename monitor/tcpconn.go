package monitor

import (
	"errors"
	"net"
	"os"
	"time"
)

// DefaultTCPPort is the default port of ser2net style serial bridges.
const DefaultTCPPort = "2000"

// TCPConn provides a TCP/IP connection to a serial bridge exporting the device stream.
type TCPConn struct {
	host, port string
	conn       net.Conn
	timeout    time.Duration
}

var _ Conn = (*TCPConn)(nil)

// OpenTCP connects to the bridge at address (host or host:port).
func OpenTCP(address string) (*TCPConn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		host, port = address, DefaultTCPPort
	}
	c := &TCPConn{host: host, port: port}
	if c.conn, err = net.Dial("tcp", net.JoinHostPort(c.host, c.port)); err != nil {
		return nil, err
	}
	return c, nil
}

// TCPOpener is the OpenFunc of serial bridges. The port name is the bridge address,
// the baud rate is configured on the bridge and ignored.
func TCPOpener(address string, _ int) (Conn, error) {
	c, err := OpenTCP(address)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetReadTimeout implements the Conn interface.
func (c *TCPConn) SetReadTimeout(t time.Duration) error {
	c.timeout = t
	return nil
}

// Read implements the Conn interface. A read deadline expiry is reported as an empty read.
func (c *TCPConn) Read(p []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	n, err = c.conn.Read(p)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		return n, nil
	}
	return n, err
}

// Close implements the Conn interface.
func (c *TCPConn) Close() error {
	return c.conn.Close()
}
