// Package debugcfg exposes the debug-config and debug-status bit layouts
// (spec.md §4.6) as typed flag sets with named predicates, rather than
// reimplementing the original's print statements (spec.md §9 design
// note). The checklist rendering in String() matches the original
// source's renderDebugConfig/renderDebugStatus output.
package debugcfg

import "strings"

// ConfigFlags is the debug-configuration byte.
type ConfigFlags byte

const (
	SoftPowerMode ConfigFlags = 0x10
	TimersOff     ConfigFlags = 0x08
	DMAPause      ConfigFlags = 0x04
	TimerSuspend  ConfigFlags = 0x02
)

func (c ConfigFlags) HasSoftPowerMode() bool { return c&SoftPowerMode != 0 }
func (c ConfigFlags) HasTimersOff() bool     { return c&TimersOff != 0 }
func (c ConfigFlags) HasDMAPause() bool      { return c&DMAPause != 0 }
func (c ConfigFlags) HasTimerSuspend() bool  { return c&TimerSuspend != 0 }

// WithDMAPause returns a copy of c with the DMA_PAUSE bit set or cleared.
func (c ConfigFlags) WithDMAPause(on bool) ConfigFlags {
	if on {
		return c | DMAPause
	}
	return c &^ DMAPause
}

func (c ConfigFlags) String() string {
	return renderChecklist([]checklistEntry{
		{"SOFT_POWER_MODE", c.HasSoftPowerMode()},
		{"TIMERS_OFF", c.HasTimersOff()},
		{"DMA_PAUSE", c.HasDMAPause()},
		{"TIMER_SUSPEND", c.HasTimerSuspend()},
	})
}

// StatusFlags is the debug-status byte, returned by STATUS, WR_CFG, and
// BRUSTWR (spec.md §4.6). STEP returns the accumulator instead.
type StatusFlags byte

const (
	ChipEraseBusy     StatusFlags = 0x80
	PCONIdle          StatusFlags = 0x40
	CPUHalted         StatusFlags = 0x20
	PMActive          StatusFlags = 0x10
	HaltStatus        StatusFlags = 0x08
	DebugLocked       StatusFlags = 0x04
	OscillatorStable  StatusFlags = 0x02
	StackOverflow     StatusFlags = 0x01
)

func (s StatusFlags) IsChipEraseBusy() bool    { return s&ChipEraseBusy != 0 }
func (s StatusFlags) IsPCONIdle() bool         { return s&PCONIdle != 0 }
func (s StatusFlags) IsCPUHalted() bool        { return s&CPUHalted != 0 }
func (s StatusFlags) IsPMActive() bool         { return s&PMActive != 0 }
func (s StatusFlags) HasHaltStatus() bool      { return s&HaltStatus != 0 }
func (s StatusFlags) IsDebugLocked() bool      { return s&DebugLocked != 0 }
func (s StatusFlags) IsOscillatorStable() bool { return s&OscillatorStable != 0 }
func (s StatusFlags) HasStackOverflow() bool   { return s&StackOverflow != 0 }

func (s StatusFlags) String() string {
	return renderChecklist([]checklistEntry{
		{"CHIP_ERASE_BUSY", s.IsChipEraseBusy()},
		{"PCON_IDLE", s.IsPCONIdle()},
		{"CPU_HALTED", s.IsCPUHalted()},
		{"PM_ACTIVE", s.IsPMActive()},
		{"HALT_STATUS", s.HasHaltStatus()},
		{"DEBUG_LOCKED", s.IsDebugLocked()},
		{"OSCILLATOR_STABLE", s.IsOscillatorStable()},
		{"STACK_OVERFLOW", s.HasStackOverflow()},
	})
}

type checklistEntry struct {
	name string
	set  bool
}

func renderChecklist(entries []checklistEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.set {
			b.WriteString(" [X] ")
		} else {
			b.WriteString(" [ ] ")
		}
		b.WriteString(e.name)
	}
	return b.String()
}
