package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, uint32(0), Checksum(nil))
	assert.Equal(t, uint32(0x232), Checksum([]byte("host::")))
}

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		header Header
	}{
		{"CNXN handshake", Header{Command: CNXN, Arg0: Version, Arg1: MaxData, DataLength: 6, DataCRC32: 0x232, Magic: uint32(CNXN) ^ 0xFFFFFFFF}},
		{"zero header", Header{}},
		{"unknown opcode", Header{Command: Command(0xDEADBEEF), Magic: 0x21524110}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, EncodeHeader(buf, tt.header))
			assert.Equal(t, HeaderSize, buf.Len())

			got, err := DecodeHeader(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.header, got)
		})
	}
}

func TestMagicInvariant(t *testing.T) {
	for _, cmd := range []Command{SYNC, CNXN, AUTH, OPEN, OKAY, CLSE, WRTE} {
		h := NewHeader(cmd).Build()
		assert.Equal(t, uint32(0xFFFFFFFF), h.Magic^uint32(h.Command))
	}
}

func TestHeaderBuilder(t *testing.T) {
	payload := []byte("shell:echo hi\x00")
	h := NewHeader(OPEN).Arg0(1).Data(payload).Build()

	assert.Equal(t, OPEN, h.Command)
	assert.Equal(t, uint32(1), h.Arg0)
	assert.Equal(t, uint32(len(payload)), h.DataLength)
	assert.Equal(t, Checksum(payload), h.DataCRC32)
}

func TestFromUint32(t *testing.T) {
	cmd, ok := FromUint32(uint32(CNXN))
	assert.True(t, ok)
	assert.Equal(t, CNXN, cmd)

	_, ok = FromUint32(0xDEADBEEF)
	assert.False(t, ok)
}

func TestReadAndVerifyPayloadDetectsMismatch(t *testing.T) {
	payload := []byte("device::01")
	h := NewHeader(CNXN).Arg0(Version).Arg1(MaxData).Data(payload).Build()
	h.DataCRC32++ // corrupt

	_, err := ReadAndVerifyPayload(bytes.NewReader(payload), h)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadPayloadNoVerification(t *testing.T) {
	payload := []byte("hi\n")
	n, err := ReadPayload(bytes.NewReader(payload), uint32(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, n)

	empty, err := ReadPayload(bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
