package adb_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"goadb/internal/wire"
)

// serverHandshake performs the server side of the CNXN handshake on conn
// and returns the client's requested system identity.
func serverHandshake(t *testing.T, conn net.Conn) string {
	t.Helper()
	return serverHandshakeWithMaxData(t, conn, wire.MaxData)
}

// serverHandshakeWithMaxData is serverHandshake with a caller-chosen
// device_max_data, so push tests can exercise chunk-boundary behavior
// without moving megabyte-sized fixtures.
func serverHandshakeWithMaxData(t *testing.T, conn net.Conn, maxData uint32) string {
	t.Helper()

	h, err := wire.DecodeHeader(conn)
	require.NoError(t, err)
	require.Equal(t, wire.CNXN, h.Command)

	payload, err := wire.ReadAndVerifyPayload(conn, h)
	require.NoError(t, err)

	reply := []byte("device::01")
	replyHeader := wire.NewHeader(wire.CNXN).Arg0(wire.Version).Arg1(maxData).Data(reply).Build()
	require.NoError(t, wire.EncodeHeader(conn, replyHeader))
	_, err = conn.Write(reply)
	require.NoError(t, err)

	return string(payload)
}

// recvFrame reads one full (header, payload) frame from conn.
func recvFrame(t *testing.T, conn net.Conn) (wire.Header, []byte) {
	t.Helper()
	h, err := wire.DecodeHeader(conn)
	require.NoError(t, err)
	payload, err := wire.ReadPayload(conn, h.DataLength)
	require.NoError(t, err)
	return h, payload
}

// sendFrame writes one (header, payload) frame, auto-populating
// data_length/data_crc32 from payload.
func sendFrame(t *testing.T, conn net.Conn, cmd wire.Command, arg0, arg1 uint32, payload []byte) {
	t.Helper()
	h := wire.NewHeader(cmd).Arg0(arg0).Arg1(arg1).Data(payload).Build()
	require.NoError(t, wire.EncodeHeader(conn, h))
	if len(payload) > 0 {
		_, err := conn.Write(payload)
		require.NoError(t, err)
	}
}
