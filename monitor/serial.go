package monitor

import (
	"errors"
	"strings"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"golang.org/x/exp/slices"
)

// DefaultBaudRate is the baud rate most microcontroller sketches use.
const DefaultBaudRate = 115200

// ErrNoDefaultPort is returned if no serial port matches the platform default.
var ErrNoDefaultPort = errors.New("default port could not be detected")

// SerialPortNames returns the sorted names of the serial ports available on this machine.
func SerialPortNames() ([]string, error) {
	portNames, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	slices.Sort(portNames)
	return portNames, nil
}

// SerialDefaultPortName returns the default serial port name if a detection is possible and an error otherwise.
func SerialDefaultPortName() (string, error) {
	portNames, err := SerialPortNames()
	if err != nil {
		return "", err
	}

	for _, name := range portNames {
		if strings.HasPrefix(name, defaultSerialPortPath) {
			return name, nil
		}
	}
	return "", ErrNoDefaultPort
}

// Serial provides a serial connection to the device.
type Serial struct {
	portName string
	port     serial.Port
}

var _ Conn = (*Serial)(nil)

// OpenSerial opens portName in 8N1 mode at baudRate.
func OpenSerial(portName string, baudRate int) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		glog.V(1).Infof("error opening serial %s: %s", portName, err)
		return nil, err
	}
	return &Serial{portName: portName, port: port}, nil
}

// SerialOpener is the OpenFunc of serial ports.
func SerialOpener(portName string, baudRate int) (Conn, error) {
	s, err := OpenSerial(portName, baudRate)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PortName returns the name the port was opened with.
func (s *Serial) PortName() string { return s.portName }

// Read implements the io.Reader interface.
func (s *Serial) Read(p []byte) (n int, err error) {
	return s.port.Read(p)
}

// SetReadTimeout implements the Conn interface.
func (s *Serial) SetReadTimeout(t time.Duration) error {
	return s.port.SetReadTimeout(t)
}

// Close closes the serial port.
func (s *Serial) Close() error {
	return s.port.Close()
}
