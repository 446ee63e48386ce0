// Package protocol implements the command layer (spec.md §4.2): one
// method per proxy opcode, each a thin wrapper over a single
// request/response exchange on a transport.Transport. No command retries
// and no translation of transport errors happen here; that is left to
// higher layers, per spec.md §7.
package protocol

import (
	"io"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/internal/wire"
	"github.com/cc2540/ccdebugger/transport"
)

// Port is the command layer bound to one transport. It has no session
// state of its own (chip id, cached debug status, ...); that lives one
// layer up, in the Session.
type Port struct {
	t transport.Transport
}

// New wraps t in a command-layer Port.
func New(t transport.Transport) *Port {
	return &Port{t: t}
}

// sendFrame sends the 4-byte command frame and consumes the ack byte.
// On ANS_ERROR it reads the trailing error-code byte and returns
// ccerrors.TransportError with it populated.
func (p *Port) sendFrame(cmd byte, params ...byte) error {
	frame := wire.Frame(cmd, params...)

	if _, err := p.t.Write(frame[:]); err != nil {
		return &ccerrors.TransportError{Reason: err.Error()}
	}
	if err := p.t.Flush(); err != nil {
		return &ccerrors.TransportError{Reason: err.Error()}
	}

	ack, err := p.readByte()
	if err != nil {
		return err
	}

	switch ack {
	case wire.AnsOK:
		return nil
	case wire.AnsError:
		code, err := p.readByte()
		if err != nil {
			return err
		}
		return &ccerrors.TransportError{Code: code, HasCode: true}
	default:
		return &ccerrors.TransportError{Reason: "malformed acknowledgment byte"}
	}
}

func (p *Port) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(p.t, b[:]); err != nil {
		return 0, &ccerrors.TransportError{Reason: err.Error()}
	}
	return b[0], nil
}

func (p *Port) readBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.t, buf); err != nil {
		return nil, &ccerrors.TransportError{Reason: err.Error()}
	}
	return buf, nil
}

// Ping sends CMD_PING and reports whether the proxy is reachable.
func (p *Port) Ping() error {
	return p.sendFrame(wire.CmdPing)
}

// Enter puts the chip into debug mode.
func (p *Port) Enter() error {
	return p.sendFrame(wire.CmdEnter)
}

// Exit resumes the CPU, leaving debug mode.
func (p *Port) Exit() error {
	return p.sendFrame(wire.CmdExit)
}

// ChipID reads the chip's 16-bit identifier.
func (p *Port) ChipID() (uint16, error) {
	if err := p.sendFrame(wire.CmdChipID); err != nil {
		return 0, err
	}
	b, err := p.readBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Status reads the one-byte debug status register.
func (p *Port) Status() (byte, error) {
	if err := p.sendFrame(wire.CmdStatus); err != nil {
		return 0, err
	}
	return p.readByte()
}

// PC reads the current program counter.
func (p *Port) PC() (uint16, error) {
	if err := p.sendFrame(wire.CmdPC); err != nil {
		return 0, err
	}
	b, err := p.readBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Step single-steps one instruction and returns the accumulator.
func (p *Port) Step() (byte, error) {
	if err := p.sendFrame(wire.CmdStep); err != nil {
		return 0, err
	}
	return p.readByte()
}

// Exec1 executes a one-byte 8051 instruction (e.g. MOVX A,@DPTR) and
// returns the resulting accumulator value.
func (p *Port) Exec1(op byte) (byte, error) {
	if err := p.sendFrame(wire.CmdExec1, op); err != nil {
		return 0, err
	}
	return p.readByte()
}

// Exec2 executes a two-byte 8051 instruction (opcode plus one operand)
// and returns the resulting accumulator value.
func (p *Port) Exec2(op, b1 byte) (byte, error) {
	if err := p.sendFrame(wire.CmdExec2, op, b1); err != nil {
		return 0, err
	}
	return p.readByte()
}

// Exec3 executes a three-byte 8051 instruction (opcode plus two operands)
// and returns the resulting accumulator value.
func (p *Port) Exec3(op, b1, b2 byte) (byte, error) {
	if err := p.sendFrame(wire.CmdExec3, op, b1, b2); err != nil {
		return 0, err
	}
	return p.readByte()
}

// ReadConfig reads the debug configuration byte.
func (p *Port) ReadConfig() (byte, error) {
	if err := p.sendFrame(wire.CmdRdCfg); err != nil {
		return 0, err
	}
	return p.readByte()
}

// WriteConfig writes the debug configuration byte and returns the debug
// status byte the proxy reports in response.
func (p *Port) WriteConfig(cfg byte) (byte, error) {
	if err := p.sendFrame(wire.CmdWrCfg, cfg); err != nil {
		return 0, err
	}
	return p.readByte()
}

// BurstWrite streams data into DBGDATA via CMD_BRUSTWR: the command
// frame carries the length, then data is written verbatim, then a
// second ack and the debug status byte are read. len(data) must be in
// [1, 2048] per spec.md §3; violations return ccerrors.BurstTooLarge
// without touching the wire.
func (p *Port) BurstWrite(data []byte) (status byte, err error) {
	n := len(data)
	if n < 1 || n > wire.MaxBurstLen {
		return 0, &ccerrors.BurstTooLarge{Len: n}
	}

	hi := byte(n >> 8 & 0xFF)
	lo := byte(n & 0xFF)
	if err := p.sendFrame(wire.CmdBrustWR, hi, lo); err != nil {
		return 0, err
	}

	if _, err := p.t.Write(data); err != nil {
		return 0, &ccerrors.TransportError{Reason: err.Error()}
	}
	if err := p.t.Flush(); err != nil {
		return 0, &ccerrors.TransportError{Reason: err.Error()}
	}

	ack, err := p.readByte()
	if err != nil {
		return 0, err
	}
	switch ack {
	case wire.AnsOK:
		// fall through to read debug status below
	case wire.AnsError:
		code, err := p.readByte()
		if err != nil {
			return 0, err
		}
		return 0, &ccerrors.TransportError{Code: code, HasCode: true}
	default:
		return 0, &ccerrors.TransportError{Reason: "malformed acknowledgment byte"}
	}

	return p.readByte()
}
