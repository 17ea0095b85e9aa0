package adb_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adb "goadb"
	adberrors "goadb/internal/errors"
	"goadb/internal/wire"
)

// fakeServer starts a TCP listener and hands the first accepted connection
// to the given handler on its own goroutine.
func fakeServer(t *testing.T, handler func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}()

	return ln.Addr().String()
}

func writeHeader(t *testing.T, conn net.Conn, h wire.Header) {
	t.Helper()
	require.NoError(t, wire.EncodeHeader(conn, h))
}

func TestConnectHandshakeRoundTrip(t *testing.T) {
	addr := fakeServer(t, func(conn net.Conn) {
		h, err := wire.DecodeHeader(conn)
		require.NoError(t, err)
		assert.Equal(t, wire.CNXN, h.Command)
		assert.Equal(t, wire.Version, h.Arg0)
		assert.Equal(t, wire.MaxData, h.Arg1)
		assert.Equal(t, uint32(6), h.DataLength)
		assert.Equal(t, uint32(0x232), h.DataCRC32)
		assert.Equal(t, uint32(wire.CNXN)^0xFFFFFFFF, h.Magic)

		payload, err := wire.ReadPayload(conn, h.DataLength)
		require.NoError(t, err)
		assert.Equal(t, "host::", string(payload))

		reply := []byte("device::01")
		replyHeader := wire.NewHeader(wire.CNXN).Arg0(wire.Version).Arg1(wire.MaxData).Data(reply).Build()
		writeHeader(t, conn, replyHeader)
		_, err = conn.Write(reply)
		require.NoError(t, err)

		// Keep the connection open so the client's workers don't see EOF
		// mid-assertion.
		time.Sleep(50 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := adb.Connect(ctx, "host::", addr)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, wire.MaxData, uint32(conn.MaxDataLen()))
	assert.Equal(t, "device::01", conn.DeviceIdentity())
}

func TestConnectAuthRejected(t *testing.T) {
	addr := fakeServer(t, func(conn net.Conn) {
		_, err := wire.DecodeHeader(conn)
		require.NoError(t, err)
		_, _ = wire.ReadPayload(conn, 6)

		writeHeader(t, conn, wire.NewHeader(wire.AUTH).Build())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := adb.Connect(ctx, "host::", addr)
	require.Error(t, err)
	assert.True(t, adberrors.IsKind(err, adberrors.KindAuthNotSupported))
}

func TestConnectUnknownOpcode(t *testing.T) {
	addr := fakeServer(t, func(conn net.Conn) {
		_, err := wire.DecodeHeader(conn)
		require.NoError(t, err)
		_, _ = wire.ReadPayload(conn, 6)

		writeHeader(t, conn, wire.Header{Command: wire.Command(0xDEADBEEF)})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := adb.Connect(ctx, "host::", addr)
	require.Error(t, err)
	e, ok := err.(*adberrors.Error)
	require.True(t, ok)
	assert.Equal(t, adberrors.KindUnknownCommand, e.Kind)
	assert.Equal(t, uint32(0xDEADBEEF), e.RawCommand)
}
