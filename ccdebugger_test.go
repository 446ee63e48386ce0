package ccdebugger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cc2540/ccdebugger/ccerrors"
	"github.com/cc2540/ccdebugger/internal/logx"
	"github.com/cc2540/ccdebugger/transport/mock"
)

// TestOpenHappyPath is spec.md §8 scenario 1: the mock acks PING,
// answers CHIP_ID with 0x8D41, and RDCFG with 0x04.
func TestOpenHappyPath(t *testing.T) {
	tp := mock.New()
	tp.QueueResponse(0x01)             // PING ack
	tp.QueueResponse(0x01, 0x8D, 0x41) // CHIP_ID ack + id
	tp.QueueResponse(0x01, 0x04)       // RDCFG ack + cfg

	session, err := Open("mock", WithTransport(tp), WithLogger(logx.Discard()))
	require.NoError(t, err)
	require.NotNil(t, session)

	require.Equal(t, uint16(0x8D41), session.ChipID())
	require.Equal(t, byte(0x04), byte(session.DebugConfig()))
	require.False(t, tp.Closed())
}

// TestOpenRejectsUnsupportedChip is spec.md §8 scenario 2: a chip id
// whose high byte isn't 0x8D is rejected and the transport closed.
func TestOpenRejectsUnsupportedChip(t *testing.T) {
	tp := mock.New()
	tp.QueueResponse(0x01)             // PING ack
	tp.QueueResponse(0x01, 0x7F, 0x00) // CHIP_ID ack + id

	session, err := Open("mock", WithTransport(tp), WithLogger(logx.Discard()))
	require.Nil(t, session)
	require.Error(t, err)

	var unsupported *ccerrors.UnsupportedChip
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, uint16(0x7F00), unsupported.ChipID)
	require.True(t, tp.Closed())
}

// TestOpenProxyUnreachable covers an unanswered ping.
func TestOpenProxyUnreachable(t *testing.T) {
	tp := mock.New() // no scripted responses at all

	session, err := Open("mock", WithTransport(tp), WithLogger(logx.Discard()))
	require.Nil(t, session)

	var unreachable *ccerrors.ProxyUnreachable
	require.True(t, errors.As(err, &unreachable))
	require.True(t, tp.Closed())
}
