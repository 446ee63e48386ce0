// Package ccdebugger is a host-side driver for the TI CC2540/CC2541
// Bluetooth SoC, talking through a serial-attached CCLib_proxy bridge
// (spec.md §1). It ties together the transport, command, target-CPU and
// flash-programmer layers behind one Port value representing an open
// debug session.
package ccdebugger

import (
	"fmt"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/chipinfo"
	"github.com/cc2540/ccdebugger/debugcfg"
	"github.com/cc2540/ccdebugger/dma"
	"github.com/cc2540/ccdebugger/flash"
	"github.com/cc2540/ccdebugger/internal/logx"
	"github.com/cc2540/ccdebugger/protocol"
	"github.com/cc2540/ccdebugger/target"
	"github.com/cc2540/ccdebugger/transport"
)

// requiredChipIDHighByte is the CC2540/CC2541 family identifier
// (spec.md §1, §3): Port.ChipID()&0xFF00 must equal this.
const requiredChipIDHighByte = 0x8D00

// Port is one open debug session: transport, chip identity, and cached
// debug config/status (spec.md §3's Session entity). Not safe for
// concurrent use; pin it to one goroutine or serialize access
// externally (spec.md §5).
type Port struct {
	tp    transport.Transport
	proto *protocol.Port
	cpu   *target.CPU
	dmaCh *dma.Channels
	prog  *flash.Programmer
	log   *logx.Logger

	chipID      uint16
	debugConfig debugcfg.ConfigFlags
	debugStatus debugcfg.StatusFlags
}

type options struct {
	transport transport.Transport
	baud      int
	memBase   uint16
	log       *logx.Logger
}

// Option configures Open.
type Option func(*options)

// WithTransport injects a transport.Transport instead of opening a real
// serial port; tests use this to supply transport/mock.Mock.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithBaud overrides the serial baud rate used when opening a real port.
func WithBaud(baud int) Option {
	return func(o *options) { o.baud = baud }
}

// WithMemBase overrides where DMA descriptors are placed in XDATA
// (default dma.DefaultMemBase).
func WithMemBase(memBase uint16) Option {
	return func(o *options) { o.memBase = memBase }
}

// WithLogger supplies a logger; default is logx.New(false).
func WithLogger(l *logx.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open opens portName, pings the proxy, probes the chip id, and refuses
// any chip that isn't a CC2540/CC2541 (spec.md §6). On any failure the
// port, if opened, is closed before returning.
func Open(portName string, opts ...Option) (*Port, error) {
	o := options{baud: transport.DefaultBaud, memBase: dma.DefaultMemBase}
	for _, apply := range opts {
		apply(&o)
	}
	if o.log == nil {
		o.log = logx.New(false)
	}

	tp := o.transport
	if tp == nil {
		st, err := transport.OpenSerial(portName, o.baud)
		if err != nil {
			return nil, &ccerrors.PortOpenError{Port: portName, Err: err}
		}
		tp = st
	}

	p := &Port{
		tp:    tp,
		proto: protocol.New(tp),
		log:   o.log,
	}
	p.cpu = target.New(p.proto)
	p.dmaCh = dma.NewChannels(p.cpu, o.memBase)
	p.prog = flash.New(p.proto, p.cpu, p.dmaCh)

	if err := p.proto.Ping(); err != nil {
		tp.Close()
		return nil, &ccerrors.ProxyUnreachable{Port: portName}
	}
	p.log.Debug("proxy responded to ping", "port", portName)

	chipID, err := p.proto.ChipID()
	if err != nil {
		tp.Close()
		return nil, fmt.Errorf("reading chip id: %w", err)
	}
	if chipID&0xFF00 != requiredChipIDHighByte {
		tp.Close()
		return nil, &ccerrors.UnsupportedChip{ChipID: chipID}
	}
	p.chipID = chipID

	cfg, err := p.proto.ReadConfig()
	if err != nil {
		tp.Close()
		return nil, fmt.Errorf("reading debug config: %w", err)
	}
	p.debugConfig = debugcfg.ConfigFlags(cfg)

	p.log.Info("session opened", "chip_id", fmt.Sprintf("0x%04x", chipID))

	return p, nil
}

// Close releases the underlying transport. Safe to call more than once.
func (p *Port) Close() error {
	return p.tp.Close()
}

// ChipID returns the 16-bit chip identifier probed at Open time.
func (p *Port) ChipID() uint16 { return p.chipID }

// ChipInfo reads and decodes the chip-info registers. Unlike ChipID, it
// is not cached at Open time; spec.md's session-open scenario only
// pings, reads the chip id, and reads the debug config, so flash-size
// and SRAM-bank info is fetched on demand instead.
func (p *Port) ChipInfo() (chipinfo.Info, error) { return chipinfo.GetChipInfo(p.cpu) }

// DebugConfig returns the most recently known debug-config byte.
func (p *Port) DebugConfig() debugcfg.ConfigFlags { return p.debugConfig }

// DebugStatus returns the most recently known debug-status byte, cached
// from the last ReadStatus, WriteConfig or BurstWrite response. Call
// ReadStatus for a fresh read.
func (p *Port) DebugStatus() debugcfg.StatusFlags { return p.debugStatus }

// ReadStatus issues CMD_STATUS and refreshes the cached debug status.
func (p *Port) ReadStatus() (debugcfg.StatusFlags, error) {
	status, err := p.proto.Status()
	if err != nil {
		return 0, err
	}
	p.debugStatus = debugcfg.StatusFlags(status)
	return p.debugStatus, nil
}

// Enter puts the chip into debug mode.
func (p *Port) Enter() error { return p.proto.Enter() }

// Exit resumes the CPU, leaving debug mode.
func (p *Port) Exit() error { return p.proto.Exit() }

// Step single-steps one instruction.
func (p *Port) Step() (byte, error) { return p.proto.Step() }

// PC reads the current program counter.
func (p *Port) PC() (uint16, error) { return p.proto.PC() }

// ReadXDATA reads size bytes from the XDATA address space.
func (p *Port) ReadXDATA(offset uint16, size int) ([]byte, error) {
	return p.cpu.ReadXDATA(offset, size)
}

// WriteXDATA writes data to the XDATA address space.
func (p *Port) WriteXDATA(offset uint16, data []byte) error {
	return p.cpu.WriteXDATA(offset, data)
}

// ReadCODE reads size bytes from code-mapped flash, splitting across
// bank boundaries as needed.
func (p *Port) ReadCODE(offset uint32, size int) ([]byte, error) {
	return p.cpu.ReadCODE(offset, size)
}

// WriteConfig writes the debug-config byte and updates the cached
// config/status (spec.md §3: writeConfig "returns a status byte the
// session stores").
func (p *Port) WriteConfig(cfg debugcfg.ConfigFlags) error {
	status, err := p.proto.WriteConfig(byte(cfg))
	if err != nil {
		return err
	}
	p.debugConfig = cfg
	p.debugStatus = debugcfg.StatusFlags(status)
	return nil
}

// PauseDMA sets or clears the DMA_PAUSE bit in the debug config.
func (p *Port) PauseDMA(pause bool) error {
	return p.WriteConfig(p.debugConfig.WithDMAPause(pause))
}

// BurstWrite streams data into DBGDATA via CMD_BRUSTWR and updates the
// cached debug status with the proxy's response.
func (p *Port) BurstWrite(data []byte) error {
	status, err := p.proto.BurstWrite(data)
	if err != nil {
		return err
	}
	p.debugStatus = debugcfg.StatusFlags(status)
	return nil
}

// WriteCode programs data into code space starting at offset. DMA must
// be unpaused first (see PauseDMA).
func (p *Port) WriteCode(offset uint32, data []byte, opts flash.Options) error {
	return p.prog.WriteCode(offset, data, opts)
}

// GetSerial returns the chip's IEEE/serial number as lowercase hex.
func (p *Port) GetSerial() (string, error) {
	return chipinfo.GetSerial(p.cpu)
}

// GetInfoPage returns the 2KB read-only information page.
func (p *Port) GetInfoPage() ([]byte, error) {
	return chipinfo.GetInfoPage(p.cpu)
}

// GetBLEInfo returns the decoded Bluegiga info page.
func (p *Port) GetBLEInfo() (chipinfo.BLEInfo, error) {
	return chipinfo.GetBLEInfo(p.cpu)
}
