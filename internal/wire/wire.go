// Package wire holds the byte-level constants of the proxy's binary
// command protocol (see spec.md §6): the 4-byte request frame, the ack
// bytes, and the command opcodes. It has no behavior of its own so that
// both the command layer and its tests can share one definition.
package wire

// Command opcodes, one per proxy operation.
const (
	CmdEnter    byte = 0x01
	CmdExit     byte = 0x02
	CmdChipID   byte = 0x03
	CmdStatus   byte = 0x04
	CmdPC       byte = 0x05
	CmdStep     byte = 0x06
	CmdExec1    byte = 0x07
	CmdExec2    byte = 0x08
	CmdExec3    byte = 0x09
	CmdBrustWR  byte = 0x0A
	CmdRdCfg    byte = 0x0B
	CmdWrCfg    byte = 0x0C
	CmdPing     byte = 0xF0
)

// Acknowledgment bytes.
const (
	AnsOK    byte = 0x01
	AnsError byte = 0x02
)

// MaxBurstLen is the largest payload BRUSTWR accepts in one call.
const MaxBurstLen = 2048

// FrameLen is the size of a request frame: [CMD, P1, P2, P3].
const FrameLen = 4

// Frame builds the 4-byte request frame for cmd with up to three
// parameter bytes. Unused parameters are zero, per spec.md §4.1.
func Frame(cmd byte, params ...byte) [FrameLen]byte {
	var f [FrameLen]byte
	f[0] = cmd
	for i, p := range params {
		if i >= 3 {
			break
		}
		f[i+1] = p
	}
	return f
}
