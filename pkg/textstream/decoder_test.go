package textstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedWholeChunk(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, "Ibuprofen is an NSAID.", d.Feed([]byte("Ibuprofen is an NSAID.")))
	assert.Equal(t, "", d.Flush())
}

func TestFeedSplitMultiByteRune(t *testing.T) {
	d := NewDecoder()
	raw := []byte("café") // 'é' is two bytes

	assert.Equal(t, "caf", d.Feed(raw[:4]), "incomplete trailing rune must be held back")
	assert.Equal(t, "é", d.Feed(raw[4:]))
	assert.Equal(t, "", d.Flush())
}

func TestFeedFourByteRuneByteAtATime(t *testing.T) {
	d := NewDecoder()
	raw := []byte("💊") // four bytes

	var out string
	for i := range raw {
		out += d.Feed(raw[i : i+1])
	}
	assert.Equal(t, "💊", out)
}

func TestFeedDropsFillerBytes(t *testing.T) {
	d := NewDecoder()
	chunk := append([]byte("done"), 0x00, 0x00, 0x00)

	assert.Equal(t, "done", d.Feed(chunk))
	assert.Equal(t, "", d.Feed([]byte{0x00}))
	assert.Equal(t, "", d.Flush())
}

func TestFillerBetweenRuneBytes(t *testing.T) {
	// Filler never interleaves a rune in practice, but a proxy could split
	// arbitrarily; the decoder must not choke either way.
	d := NewDecoder()
	raw := []byte("é")

	assert.Equal(t, "", d.Feed([]byte{raw[0], 0x00}))
	assert.Equal(t, "é", d.Feed([]byte{raw[1]}))
}

func TestFlushReturnsDanglingBytes(t *testing.T) {
	d := NewDecoder()
	raw := []byte("é")

	assert.Equal(t, "", d.Feed(raw[:1]))
	assert.NotEmpty(t, d.Flush(), "stream end must not swallow buffered bytes")
}
