package syncproto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{ID: STAT, Length: 11}
	enc := h.Encode()

	got, ok := DecodeHeader(enc[:])
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsWrongLength(t *testing.T) {
	_, ok := DecodeHeader([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestNewStat(t *testing.T) {
	p := NewStat("/data/local/tmp/foo")
	assert.Equal(t, STAT, p.Header.ID)
	assert.Equal(t, uint32(len("/data/local/tmp/foo")+1), p.Header.Length)
	assert.True(t, bytes.HasSuffix(p.Buf, []byte{0}))
	assert.Equal(t, "/data/local/tmp/foo\x00", string(p.Buf[HeaderSize:]))
}

func TestNewSend(t *testing.T) {
	p := NewSend("/data/local/tmp/foo", 0o644)
	assert.Equal(t, SEND, p.Header.ID)
	assert.Equal(t, "/data/local/tmp/foo,420", string(p.Buf[HeaderSize:]))
	assert.Equal(t, uint32(len(p.Buf)-HeaderSize), p.Header.Length)
}

func TestDataChunkReadChunk(t *testing.T) {
	p := NewDataChunk(HeaderSize + 4)
	n, err := p.ReadChunk(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint32(4), p.Header.Length)
	assert.Equal(t, []byte{1, 2, 3, 4}, p.Buf[HeaderSize:])

	hdr, ok := DecodeHeader(p.Buf[:HeaderSize])
	require.True(t, ok)
	assert.Equal(t, DATA, hdr.ID)
	assert.Equal(t, uint32(4), hdr.Length)
}

func TestDataChunkReadChunkEOF(t *testing.T) {
	p := NewDataChunk(HeaderSize + 8)
	n, err := p.ReadChunk(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, uint32(0), p.Header.Length)
}

func TestNewDoneAndQuit(t *testing.T) {
	done := NewDone(1700000000)
	h, ok := DecodeHeader(done[:])
	require.True(t, ok)
	assert.Equal(t, DONE, h.ID)
	assert.Equal(t, uint32(1700000000), h.Length)

	quit := NewQuit()
	h, ok = DecodeHeader(quit[:])
	require.True(t, ok)
	assert.Equal(t, QUIT, h.ID)
	assert.Equal(t, uint32(0), h.Length)
}
