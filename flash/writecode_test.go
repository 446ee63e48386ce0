package flash

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/dma"
	"github.com/cc2540/ccdebugger/internal/wire"
	"github.com/cc2540/ccdebugger/protocol"
	"github.com/cc2540/ccdebugger/target"
	"github.com/cc2540/ccdebugger/transport/mock"
)

func TestWriteCodeZeroLengthIsNoop(t *testing.T) {
	tp := mock.New()
	cpu := target.New(protocol.New(tp))
	channels := dma.NewChannels(cpu, dma.DefaultMemBase)
	prog := New(protocol.New(tp), cpu, channels)

	err := prog.WriteCode(0, nil, Options{})
	require.NoError(t, err)
	require.Empty(t, tp.Sent(), "a zero-length write must not touch the wire")
}

// TestWriteCodeTimesOutWhenIRQNeverSets drives the state machine through
// descriptor configuration, DMA-0 arming, the burst write and FADDR
// write, up to the DMA-1 completion poll, using a mock that acks every
// command (every reply is exactly wire.AnsOK, 0x01, which wherever it is
// sampled as FCTL leaves BUSY/FULL/ABORT clear, and as DMAIRQ leaves the
// channel-1 bit clear). Since the completion IRQ bit is never observed set,
// WriteCode gives up with FlashTimeout instead of hanging.
func TestWriteCodeTimesOutWhenIRQNeverSets(t *testing.T) {
	tp := mock.New()
	tp.SetAutoFill(wire.AnsOK)

	cpu := target.New(protocol.New(tp))
	channels := dma.NewChannels(cpu, dma.DefaultMemBase)
	prog := New(protocol.New(tp), cpu, channels)

	data := make([]byte, 5)
	err := prog.WriteCode(0, data, Options{
		BlockSize:   4,
		PageSize:    2048,
		PollTimeout: 20 * time.Millisecond,
	})

	var timeout *ccerrors.FlashTimeout
	require.True(t, errors.As(err, &timeout))
	require.Equal(t, "DMA1 IRQ", timeout.Waiting)
}
