// Package flash drives the CC2540 flash controller and two DMA channels
// to program arbitrary-length payloads into code space, with optional
// per-page erase (spec.md §4.5). It requires DMA to be unpaused (see
// debugcfg.ConfigFlags.WithDMAPause) before use.
package flash

import (
	"time"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/dma"
	"github.com/cc2540/ccdebugger/protocol"
	"github.com/cc2540/ccdebugger/target"
)

// Addresses and trigger ids fixed by the flash programming sequence
// (spec.md §4.5, §6).
const (
	addrDBGData uint16 = 0x6260
	addrFCTL    uint16 = 0x6270
	addrFADDRL  uint16 = 0x6271
	addrFADDRH  uint16 = 0x6272
	addrFWData  uint16 = 0x6273

	triggerDBGBW byte = 0x1F
	triggerFlash byte = 0x12

	dmaChanProxyToRAM = 0
	dmaChanRAMToFlash = 1
)

// FCTL bits.
const (
	fctlBusy  byte = 0x80
	fctlFull  byte = 0x40
	fctlAbort byte = 0x20
	fctlWrite byte = 0x02
	fctlErase byte = 0x01
)

// DefaultBlockSize and DefaultPageSize match the original source and
// spec.md §3's flash program request defaults.
const (
	DefaultBlockSize = 2048
	DefaultPageSize  = 2048
)

// PollInterval is the sleep between BUSY/IRQ polls. It is load-bearing
// hardware settling time, not a tunable (spec.md §9); do not replace
// with a tight loop.
const PollInterval = 10 * time.Millisecond

// DefaultPollTimeout bounds how long WriteCode waits for BUSY to clear or
// the DMA-1 completion IRQ to be set before giving up with FlashTimeout.
const DefaultPollTimeout = 5 * time.Second

// Programmer ties the command layer, CPU abstraction and DMA channel
// controller together to drive flash writes.
type Programmer struct {
	port *protocol.Port
	cpu  *target.CPU
	dma  *dma.Channels
}

// New builds a Programmer over an already-opened command-layer Port,
// CPU abstraction, and DMA channel controller.
func New(port *protocol.Port, cpu *target.CPU, channels *dma.Channels) *Programmer {
	return &Programmer{port: port, cpu: cpu, dma: channels}
}

// Options configures one WriteCode call. The zero value uses
// DefaultBlockSize, DefaultPageSize and DefaultPollTimeout with erase
// disabled.
type Options struct {
	BlockSize   int
	PageSize    int
	Erase       bool
	PollTimeout time.Duration
	// Abort, if non-nil, is consulted between chunks; a closed/ready
	// channel stops the programming pass. The chip is left in an
	// implementation-defined state and the flash region must be treated
	// as corrupt (spec.md §5).
	Abort <-chan struct{}
}

func (o Options) normalized() Options {
	if o.BlockSize <= 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	return o
}

// IsFlashBusy reports whether FCTL.BUSY is set.
func IsFlashBusy(cpu *target.CPU) (bool, error) {
	return fctlBit(cpu, fctlBusy)
}

// IsFlashFull reports whether FCTL.FULL is set.
func IsFlashFull(cpu *target.CPU) (bool, error) {
	return fctlBit(cpu, fctlFull)
}

// IsFlashAbort reports whether FCTL.ABORT is set.
func IsFlashAbort(cpu *target.CPU) (bool, error) {
	return fctlBit(cpu, fctlAbort)
}

func fctlBit(cpu *target.CPU, bit byte) (bool, error) {
	b, err := cpu.ReadXDATA(addrFCTL, 1)
	if err != nil {
		return false, err
	}
	return b[0]&bit != 0, nil
}

func setFCTLBit(cpu *target.CPU, bit byte) error {
	b, err := cpu.ReadXDATA(addrFCTL, 1)
	if err != nil {
		return err
	}
	b[0] |= bit
	return cpu.WriteXDATA(addrFCTL, b)
}

// encodeFlashAddr splits a (page, offset) pair into FADDRL/FADDRH per
// spec.md §4.5. The `&0x01` after `fOffset<<8` is always zero for any
// 8-bit fOffset; this mirrors a quirk in the original source (spec.md
// §9 Open Question) and is preserved for wire compatibility rather than
// "fixed."
func encodeFlashAddr(fPage, fOffset int) (faddrL, faddrH byte) {
	faddrL = byte(fOffset & 0xFF)
	faddrH = byte(fPage<<1) | byte(fOffset<<8)&0x01
	return faddrL, faddrH
}

// DecodeFlashAddr inverts encodeFlashAddr's bit layout, returning the
// (page, offset) pair the hardware would see; offset is FADDRL only.
// It exists for spec.md §8's round-trip property tests.
func DecodeFlashAddr(faddrL, faddrH byte) (page, offset int) {
	page = int(faddrH) >> 1
	offset = int(faddrL)
	return page, offset
}

func (p *Programmer) configureChunk(chunkLen int) error {
	if err := p.dma.Configure(dmaChanProxyToRAM, dma.Config{
		SrcAddr: addrDBGData,
		DstAddr: 0x0000,
		Trigger: triggerDBGBW,
		SrcInc:  0,
		DstInc:  1,
		Priority: 1,
		Len:     uint16(chunkLen),
		M8:      true,
	}); err != nil {
		return err
	}

	return p.dma.Configure(dmaChanRAMToFlash, dma.Config{
		SrcAddr:   0x0000,
		DstAddr:   addrFWData,
		Trigger:   triggerFlash,
		SrcInc:    1,
		DstInc:    0,
		Priority:  2,
		Interrupt: true,
		Len:       uint16(chunkLen),
		M8:        true,
	})
}

// WriteCode writes data to code space starting at offset, per the state
// machine in spec.md §4.5. A zero-length data is a no-op.
func (p *Programmer) WriteCode(offset uint32, data []byte, opts Options) error {
	if len(data) == 0 {
		return nil
	}
	opts = opts.normalized()

	if err := p.configureChunk(opts.BlockSize); err != nil {
		return err
	}

	cursor := 0
	for cursor < len(data) {
		if aborted(opts.Abort) {
			return nil
		}

		chunkLen := len(data) - cursor
		if chunkLen > opts.BlockSize {
			chunkLen = opts.BlockSize
		}

		if chunkLen < opts.BlockSize {
			if err := p.configureChunk(chunkLen); err != nil {
				return err
			}
		}

		if err := p.dma.Arm(dmaChanProxyToRAM); err != nil {
			return err
		}
		if _, err := p.port.BurstWrite(data[cursor : cursor+chunkLen]); err != nil {
			return err
		}

		fAddr := int(offset) + cursor
		fPage := fAddr / opts.PageSize
		fOffset := fAddr % opts.PageSize
		faddrL, faddrH := encodeFlashAddr(fPage, fOffset)
		if err := p.cpu.WriteXDATA(addrFADDRL, []byte{faddrL, faddrH}); err != nil {
			return err
		}

		if opts.Erase {
			if err := setFCTLBit(p.cpu, fctlErase); err != nil {
				return err
			}
			if err := p.pollUntilClear(func() (bool, error) {
				return IsFlashBusy(p.cpu)
			}, "BUSY", opts.PollTimeout); err != nil {
				return err
			}
		}

		if err := p.dma.Arm(dmaChanRAMToFlash); err != nil {
			return err
		}
		if err := setFCTLBit(p.cpu, fctlWrite); err != nil {
			return err
		}

		if err := p.pollUntilSet(func() (bool, error) {
			return p.dma.IsIRQ(dmaChanRAMToFlash)
		}, "DMA1 IRQ", opts.PollTimeout); err != nil {
			return err
		}
		if err := p.dma.ClearIRQ(dmaChanRAMToFlash); err != nil {
			return err
		}

		if full, err := IsFlashFull(p.cpu); err != nil {
			return err
		} else if full {
			return &ccerrors.FlashFull{}
		}
		if abort, err := IsFlashAbort(p.cpu); err != nil {
			return err
		} else if abort {
			return &ccerrors.FlashAbort{}
		}

		cursor += chunkLen
	}

	return nil
}

func aborted(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func (p *Programmer) pollUntilClear(check func() (bool, error), what string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		set, err := check()
		if err != nil {
			return err
		}
		if !set {
			return nil
		}
		if time.Now().After(deadline) {
			return &ccerrors.FlashTimeout{Waiting: what}
		}
		time.Sleep(PollInterval)
	}
}

func (p *Programmer) pollUntilSet(check func() (bool, error), what string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		set, err := check()
		if err != nil {
			return err
		}
		if set {
			return nil
		}
		if time.Now().After(deadline) {
			return &ccerrors.FlashTimeout{Waiting: what}
		}
		time.Sleep(PollInterval)
	}
}
