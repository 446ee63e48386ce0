// Package transport implements the synchronous serial link described in
// spec.md §4.1: a fixed 4-byte command frame out, a one-byte ack plus an
// operation-defined payload back. It owns the port for the lifetime of a
// session and is stateless across commands; there is no framing escape
// and no length prefix, the payload size is implied by the command.
package transport

import (
	"io"
	"time"

	"github.com/cc2540/ccdebugger/internal/ttyctl"
)

// ReadTimeout is the proxy read timeout mandated by spec.md §4.1: no
// command-specific timeout exists beyond this one.
const ReadTimeout = 1 * time.Second

// Transport is the synchronous byte-level link to the proxy. Real users
// get SerialTransport; tests use transport/mock.Mock.
//
// A Transport is not safe for concurrent use, matching spec.md §5: one
// session owns one transport, and command i completes on the wire before
// command i+1 begins.
type Transport interface {
	io.Reader
	io.Writer

	// Flush ensures buffered writes have reached the wire before the
	// caller starts reading the response.
	Flush() error

	// Close releases the underlying port. Safe to call more than once.
	Close() error
}

// ListCandidatePorts lists existing /dev nodes that look like a
// CCLib_proxy bridge (USB/ACM serial adapters, RFCOMM endpoints). ccprobe
// prints them for -list; it does not consult them when -port is omitted.
func ListCandidatePorts() ([]string, error) {
	return ttyctl.CandidatePorts()
}
