package hostsvc_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goadb/internal/hostsvc"
)

// fakeHostServer starts a TCP listener and hands the first accepted
// connection to handler on its own goroutine, mirroring the root
// package's fakeServer helper but for the host-service's text framing.
func fakeHostServer(t *testing.T, handler func(net.Conn)) string {
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

func readRequest(t *testing.T, conn net.Conn) string {
	t.Helper()
	lenBuf := make([]byte, 4)
	_, err := conn.Read(lenBuf)
	require.NoError(t, err)

	n, err := strconv.ParseUint(string(lenBuf), 16, 32)
	require.NoError(t, err)

	body := make([]byte, n)
	_, err = conn.Read(body)
	require.NoError(t, err)
	return string(body)
}

func TestVersionSuccess(t *testing.T) {
	addr := fakeHostServer(t, func(conn net.Conn) {
		req := readRequest(t, conn)
		assert.Equal(t, "host:version", req)

		_, err := conn.Write([]byte("OKAY"))
		require.NoError(t, err)
		_, err = conn.Write([]byte("0004"))
		require.NoError(t, err)
		_, err = conn.Write([]byte("0029"))
		require.NoError(t, err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	version, err := hostsvc.New(addr).Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0029", version)
}

func TestKillSuccess(t *testing.T) {
	addr := fakeHostServer(t, func(conn net.Conn) {
		req := readRequest(t, conn)
		assert.Equal(t, "host:kill", req)

		_, err := conn.Write([]byte("OKAY"))
		require.NoError(t, err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, hostsvc.New(addr).Kill(ctx))
}

func TestRequestFailure(t *testing.T) {
	addr := fakeHostServer(t, func(conn net.Conn) {
		_ = readRequest(t, conn)

		_, err := conn.Write([]byte("FAIL"))
		require.NoError(t, err)
		_, err = conn.Write([]byte("001a"))
		require.NoError(t, err)
		_, err = conn.Write([]byte("no devices/emulators found"))
		require.NoError(t, err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := hostsvc.New(addr).Version(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no devices/emulators found")
}

func TestDefaultAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:5037", hostsvc.New("").Addr)
}
