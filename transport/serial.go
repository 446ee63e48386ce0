package transport

import (
	"fmt"

	"github.com/pkg/term"
)

// SerialTransport is the real, serial-port-backed Transport. It is
// adapted from the teacher's serial_port_open/serial_port_write/
// serial_port_get1 trio, generalized from line-oriented TNC command text
// to the proxy's fixed 4-byte framing.
type SerialTransport struct {
	port *term.Term
}

// DefaultBaud is the rate the CCLib_proxy firmware expects.
const DefaultBaud = 38400

// OpenSerial opens devicename (e.g. "/dev/ttyUSB0", "COM5") at baud and
// configures the 1-second read timeout spec.md §4.1 requires. baud of 0
// leaves the port's current speed alone.
func OpenSerial(devicename string, baud int) (*SerialTransport, error) {
	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", devicename, err)
	}

	if baud != 0 {
		if err := t.SetSpeed(baud); err != nil {
			t.Close()
			return nil, fmt.Errorf("set speed %d on %s: %w", baud, devicename, err)
		}
	}

	if err := t.SetReadTimeout(ReadTimeout); err != nil {
		t.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", devicename, err)
	}

	return &SerialTransport{port: t}, nil
}

func (s *SerialTransport) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialTransport) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Flush is a no-op beyond what Write already guarantees: pkg/term writes
// go straight to the file descriptor, there is no userspace buffering to
// drain before the proxy sees the bytes.
func (s *SerialTransport) Flush() error {
	return nil
}

func (s *SerialTransport) Close() error {
	return s.port.Close()
}
