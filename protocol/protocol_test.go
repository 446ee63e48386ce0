package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/internal/wire"
	"github.com/cc2540/ccdebugger/transport/mock"
)

func TestBurstWriteRejectsZeroLength(t *testing.T) {
	tp := mock.New()
	p := New(tp)

	_, err := p.BurstWrite(nil)
	var tooLarge *ccerrors.BurstTooLarge
	require.True(t, errors.As(err, &tooLarge))
	require.Equal(t, 0, tooLarge.Len)
	require.Empty(t, tp.Sent(), "a rejected burst must not touch the wire")
}

func TestBurstWriteAcceptsMaxLength(t *testing.T) {
	tp := mock.New()
	tp.QueueResponse(wire.AnsOK)       // command-frame ack
	tp.QueueResponse(wire.AnsOK)       // post-data ack
	tp.QueueResponse(0x00)             // debug status

	p := New(tp)
	data := make([]byte, wire.MaxBurstLen)
	status, err := p.BurstWrite(data)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), status)

	sent := tp.Sent()
	require.Len(t, sent, wire.FrameLen+wire.MaxBurstLen)
	require.Equal(t, wire.CmdBrustWR, sent[0])
	require.Equal(t, byte(wire.MaxBurstLen>>8), sent[1])
	require.Equal(t, byte(wire.MaxBurstLen&0xFF), sent[2])
}

func TestBurstWriteRejectsOverLength(t *testing.T) {
	tp := mock.New()
	p := New(tp)

	_, err := p.BurstWrite(make([]byte, wire.MaxBurstLen+1))
	var tooLarge *ccerrors.BurstTooLarge
	require.True(t, errors.As(err, &tooLarge))
	require.Equal(t, wire.MaxBurstLen+1, tooLarge.Len)
	require.Empty(t, tp.Sent())
}

func TestSendFrameTranslatesAnsError(t *testing.T) {
	tp := mock.New()
	tp.QueueResponse(wire.AnsError, 0x07)

	p := New(tp)
	err := p.Ping()

	var transportErr *ccerrors.TransportError
	require.True(t, errors.As(err, &transportErr))
	require.True(t, transportErr.HasCode)
	require.Equal(t, byte(0x07), transportErr.Code)
}
