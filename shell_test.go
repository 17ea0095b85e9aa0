package adb_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adb "goadb"
	"goadb/internal/wire"
)

func TestShellExec(t *testing.T) {
	addr := fakeServer(t, func(conn net.Conn) {
		serverHandshake(t, conn)

		h, payload := recvFrame(t, conn)
		require.Equal(t, wire.OPEN, h.Command)
		require.Equal(t, uint32(1), h.Arg0)
		require.Equal(t, "shell:echo hi\x00", string(payload))

		// OKAY: server's remote id 7, echoing the client's local id 1.
		sendFrame(t, conn, wire.OKAY, 7, 1, nil)

		sendFrame(t, conn, wire.WRTE, 7, 1, []byte("hi\n"))
		h, _ = recvFrame(t, conn)
		require.Equal(t, wire.OKAY, h.Command)

		sendFrame(t, conn, wire.CLSE, 7, 1, nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := adb.Connect(ctx, "host::", addr)
	require.NoError(t, err)
	defer conn.Close()

	out, err := adb.ShellExec(ctx, conn, "echo hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(out))
}
