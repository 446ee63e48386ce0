//go:build linux

// Package ttyctl provides the small serial-port helpers that sit
// underneath transport.SerialTransport: listing candidate device nodes
// and asserting that an already-open port is actually in raw mode. It
// talks to the kernel directly via golang.org/x/sys/unix, the same
// termios layer pkg/term itself uses under the hood on Linux.
package ttyctl

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// candidatePatterns are the /dev device globs a CCLib_proxy bridge
// plausibly shows up under: USB-serial and ACM adapters, and RFCOMM for
// a Bluetooth-paired proxy.
var candidatePatterns = []string{
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/rfcomm*",
}

// CandidatePorts lists existing device nodes matching candidatePatterns,
// sorted for stable output. A glob that matches nothing is not an error.
func CandidatePorts() ([]string, error) {
	var out []string
	for _, pattern := range candidatePatterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

// rawModeClearBits are the termios local-mode flags term.Open(name,
// term.RawMode) turns off: canonical (line-buffered) input, echo, and
// signal generation from control characters.
const rawModeClearBits = unix.ICANON | unix.ECHO | unix.ISIG

// IsRawMode reports whether f's termios has rawModeClearBits cleared,
// i.e. the port is in the state OpenSerial should have left it in.
func IsRawMode(f *os.File) (bool, error) {
	t, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	if err != nil {
		return false, err
	}
	return t.Lflag&rawModeClearBits == 0, nil
}
