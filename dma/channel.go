package dma

import (
	"time"

	"github.com/cc2540/ccdebugger/target"
)

// SFR addresses for DMA control (spec.md §6).
const (
	sfrDMA1CfgL byte = 0xD2
	sfrDMA1CfgH byte = 0xD3
	sfrDMA0CfgL byte = 0xD4
	sfrDMA0CfgH byte = 0xD5
	sfrDMAArm   byte = 0xD6
	sfrDMAIRQ   byte = 0xD1
)

// DefaultMemBase is where channel 0's descriptor is placed in XDATA when
// no other base is requested (spec.md §4.4).
const DefaultMemBase = 0x1000

// ArmSettleDelay is the settling time the controller needs to latch a
// newly armed descriptor. This is load-bearing hardware timing, not a
// tunable; keep it as an explicit sleep, not a tight poll (spec.md §9).
const ArmSettleDelay = 10 * time.Millisecond

// Channels drives the CC2540 DMA controller's register file and places
// descriptors in target RAM starting at MemBase.
type Channels struct {
	cpu     *target.CPU
	MemBase uint16
}

// NewChannels binds a DMA channel controller to cpu, placing descriptors
// starting at memBase (use DefaultMemBase unless the caller needs
// something else).
func NewChannels(cpu *target.CPU, memBase uint16) *Channels {
	return &Channels{cpu: cpu, MemBase: memBase}
}

// descriptorAddr returns the XDATA address of channel index's descriptor.
func (c *Channels) descriptorAddr(index int) uint16 {
	return c.MemBase + uint16(index*8)
}

// Configure writes cfg's encoded descriptor into target RAM and points
// the matching DMA config register(s) at it. Channel 0 has its own
// DMA0CFGL/H pair; channels 1-4 share DMA1CFGL/H, which the controller
// reads as a contiguous block starting at memBase+8 (spec.md §4.4).
func (c *Channels) Configure(index int, cfg Config) error {
	addr := c.descriptorAddr(index)
	d := cfg.Encode()
	if err := c.cpu.WriteXDATA(addr, d[:]); err != nil {
		return err
	}

	if index == 0 {
		return c.setCfgRegisters(sfrDMA0CfgL, sfrDMA0CfgH, addr)
	}

	blockBase := c.MemBase + 8
	return c.setCfgRegisters(sfrDMA1CfgL, sfrDMA1CfgH, blockBase)
}

func (c *Channels) setCfgRegisters(loReg, hiReg byte, addr uint16) error {
	if err := c.cpu.SetRegister(loReg, byte(addr)); err != nil {
		return err
	}
	return c.cpu.SetRegister(hiReg, byte(addr>>8))
}

// Arm sets channel index's bit in DMAARM and waits ArmSettleDelay for
// the controller to latch the descriptor.
func (c *Channels) Arm(index int) error {
	cur, err := c.cpu.GetRegister(sfrDMAArm)
	if err != nil {
		return err
	}
	if err := c.cpu.SetRegister(sfrDMAArm, cur|1<<uint(index)); err != nil {
		return err
	}
	time.Sleep(ArmSettleDelay)
	return nil
}

// Disarm clears channel index's bit in DMAARM.
func (c *Channels) Disarm(index int) error {
	cur, err := c.cpu.GetRegister(sfrDMAArm)
	if err != nil {
		return err
	}
	return c.cpu.SetRegister(sfrDMAArm, cur&^(1<<uint(index)))
}

// IsIRQ reports whether channel index's completion bit is set in DMAIRQ.
func (c *Channels) IsIRQ(index int) (bool, error) {
	cur, err := c.cpu.GetRegister(sfrDMAIRQ)
	if err != nil {
		return false, err
	}
	return cur&(1<<uint(index)) != 0, nil
}

// ClearIRQ clears channel index's completion bit in DMAIRQ.
func (c *Channels) ClearIRQ(index int) error {
	cur, err := c.cpu.GetRegister(sfrDMAIRQ)
	if err != nil {
		return err
	}
	return c.cpu.SetRegister(sfrDMAIRQ, cur&^(1<<uint(index)))
}
