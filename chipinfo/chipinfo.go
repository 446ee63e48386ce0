// Package chipinfo decodes the CC2540/CC2541 chip-info, serial number,
// information page, and BLE info page (spec.md §4.7).
package chipinfo

import (
	"fmt"
	"strings"

	"github.com/cc2540/ccdebugger/target"
)

// XDATA/CODE addresses used by the decoders (spec.md §6).
const (
	addrSerial   uint16 = 0x780E
	addrChipInfo uint16 = 0x6276
	addrInfoPage uint16 = 0x7800
	addrBLEInfo  uint32 = 0x1FFC0
)

const (
	infoPageSize   = 2048
	bleInfoPageSize = 64
)

// Info is the decoded chip-info register pair at XDATA 0x6276.
type Info struct {
	FlashKB   int
	HasUSB    bool
	SRAMBanks int
}

// GetSerial reads the 6-byte IEEE/serial number at XDATA 0x780E and
// formats it as lowercase hex with the bytes taken in reverse order
// (index 5 down to 0), matching the original source.
func GetSerial(cpu *target.CPU) (string, error) {
	b, err := cpu.ReadXDATA(addrSerial, 6)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 5; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02x", b[i])
	}
	return sb.String(), nil
}

// GetChipInfo reads and decodes the two chip-info bytes at XDATA 0x6276.
func GetChipInfo(cpu *target.CPU) (Info, error) {
	b, err := cpu.ReadXDATA(addrChipInfo, 2)
	if err != nil {
		return Info{}, err
	}
	return Info{
		FlashKB:   1 << (4 + (b[0]>>4)&0x7),
		HasUSB:    b[0]&0x08 != 0,
		SRAMBanks: int(b[1]&0x07) + 1,
	}, nil
}

// GetInfoPage returns the 2KB read-only information page at XDATA 0x7800.
func GetInfoPage(cpu *target.CPU) ([]byte, error) {
	return cpu.ReadXDATA(addrInfoPage, infoPageSize)
}

// GetBLEInfoPage returns the 64-byte Bluegiga info page, the last page
// of code space, read via ReadCODE (which selects bank 3).
func GetBLEInfoPage(cpu *target.CPU) ([]byte, error) {
	return cpu.ReadCODE(addrBLEInfo, bleInfoPageSize)
}

// BLEInfo is the translated form of the 64-byte Bluegiga info page.
type BLEInfo struct {
	License  string
	HWVer    byte
	BTAddr   string
	LockBits []byte
}

// GetBLEInfo reads the BLE info page and decodes it per spec.md §4.7:
// bytes 7..39 as a lowercase hex license, byte 39 as the hardware
// version, bytes 42..48 as a colon-separated BT address, and bytes
// 48..64 as raw lock bits.
func GetBLEInfo(cpu *target.CPU) (BLEInfo, error) {
	page, err := GetBLEInfoPage(cpu)
	if err != nil {
		return BLEInfo{}, err
	}

	var license strings.Builder
	for _, b := range page[7:39] {
		fmt.Fprintf(&license, "%02x", b)
	}

	addrBytes := page[42:48]
	addrParts := make([]string, len(addrBytes))
	for i, b := range addrBytes {
		addrParts[i] = fmt.Sprintf("%02x", b)
	}

	return BLEInfo{
		License:  license.String(),
		HWVer:    page[39],
		BTAddr:   strings.Join(addrParts, ":"),
		LockBits: page[48:64],
	}, nil
}
