package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestEncodeFlashAddrKnownExample pins spec.md §8's worked example:
// offset 0x1000 with a 0x800 page size splits into page 2, offset 0,
// giving FADDRL=0x00, FADDRH=0x04.
func TestEncodeFlashAddrKnownExample(t *testing.T) {
	const pageSize = 0x800
	offset := 0x1000

	fPage := offset / pageSize
	fOffset := offset % pageSize

	faddrL, faddrH := encodeFlashAddr(fPage, fOffset)
	require.Equal(t, byte(0x00), faddrL)
	require.Equal(t, byte(0x04), faddrH)
}

// TestEncodeFlashAddrBit0AlwaysZero pins the preserved upstream quirk
// (spec.md §9 Open Question): the low bit of FADDRH, taken from
// fOffset<<8, can never be set for an 8-bit-wide fOffset value.
func TestEncodeFlashAddrBit0AlwaysZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fPage := rapid.IntRange(0, 0x7F).Draw(rt, "fPage")
		fOffset := rapid.IntRange(0, 0x7FF).Draw(rt, "fOffset")

		_, faddrH := encodeFlashAddr(fPage, fOffset)
		assert.Zero(rt, faddrH&0x01)
	})
}

func TestFlashAddrRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fPage := rapid.IntRange(0, 0x7F).Draw(rt, "fPage")
		fOffset := rapid.IntRange(0, 0xFF).Draw(rt, "fOffset")

		faddrL, faddrH := encodeFlashAddr(fPage, fOffset)
		gotPage, gotOffset := DecodeFlashAddr(faddrL, faddrH)

		assert.Equal(rt, fPage, gotPage)
		assert.Equal(rt, fOffset, gotOffset)
	})
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{}.normalized()
	assert.Equal(t, DefaultBlockSize, o.BlockSize)
	assert.Equal(t, DefaultPageSize, o.PageSize)
	assert.Equal(t, DefaultPollTimeout, o.PollTimeout)
	assert.False(t, o.Erase)
}
