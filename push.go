/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package adb

import (
	"context"
	"os"
	"time"

	adberrors "goadb/internal/errors"
	"goadb/internal/logging"
	"goadb/internal/syncproto"
	"goadb/internal/wire"
)

// defaultPushMode is the numeric file mode used for pushed files when the
// caller does not otherwise specify one: a regular file, rw-r--r--.
const defaultPushMode = 0o100644

// Push copies the file at localPath to remotePath on the device, driving
// the sync: stream's STAT/SEND/DATA/DONE/QUIT dialog to completion.
func Push(ctx context.Context, conn *Connection, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return adberrors.IO(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return adberrors.IO(err)
	}
	size := info.Size()

	stream, err := conn.OpenStream(ctx, "sync:")
	if err != nil {
		return err
	}
	defer stream.Close()

	log := logging.With("push")
	maxData := conn.MaxDataLen()

	if err := sendSyncPacket(ctx, stream, syncproto.NewStat(remotePath)); err != nil {
		return err
	}
	if err := syncRecvOK(ctx, stream); err != nil {
		return err
	}

	// Stat-reply WRTE; body is not parsed, only acknowledged.
	if _, err := syncRecvWRTE(ctx, stream); err != nil {
		return err
	}
	if err := stream.SendOK(ctx); err != nil {
		return err
	}

	if err := sendSyncPacket(ctx, stream, syncproto.NewSend(remotePath, defaultPushMode)); err != nil {
		return err
	}
	if err := syncRecvOK(ctx, stream); err != nil {
		return err
	}

	if err := pushData(ctx, stream, f, size, maxData); err != nil {
		return err
	}

	// Server's textual result WRTE; acknowledged but not parsed further.
	if _, err := syncRecvWRTE(ctx, stream); err != nil {
		return err
	}
	if err := stream.SendOK(ctx); err != nil {
		return err
	}

	quit := syncproto.NewQuit()
	if err := stream.Send(ctx, wire.WRTE, quit[:]); err != nil {
		return err
	}
	if err := syncRecvOK(ctx, stream); err != nil {
		return err
	}

	if err := stream.SendClose(ctx); err != nil {
		return err
	}
	if _, err := stream.RecvCommand(ctx, wire.CLSE); err != nil {
		return err
	}

	log.Debug().Str("local", localPath).Str("remote", remotePath).Int64("bytes", size).Msg("push complete")
	return nil
}

// pushData transmits the file contents as a sequence of DATA chunks sized
// to maxData, finishing with a DONE marker that is appended to the final
// chunk if it fits, or sent as its own WRTE otherwise.
func pushData(ctx context.Context, stream *Stream, f *os.File, size int64, maxData int) error {
	chunk := syncproto.NewDataChunk(maxData)
	var sent int64

	for {
		n, err := chunk.ReadChunk(f)
		if err != nil {
			return adberrors.IO(err)
		}
		sent += int64(n)
		isFinal := sent >= size

		if !isFinal {
			if err := stream.Send(ctx, wire.WRTE, chunk.Buf); err != nil {
				return err
			}
			if err := syncRecvOK(ctx, stream); err != nil {
				return err
			}
			continue
		}

		return sendFinalChunk(ctx, stream, chunk.Buf, maxData)
	}
}

func sendFinalChunk(ctx context.Context, stream *Stream, chunkBuf []byte, maxData int) error {
	done := syncproto.NewDone(uint32(time.Now().Unix()))
	space := maxData - len(chunkBuf)

	if space >= syncproto.HeaderSize {
		buf := append(append([]byte(nil), chunkBuf...), done[:]...)
		if err := stream.Send(ctx, wire.WRTE, buf); err != nil {
			return err
		}
		return syncRecvOK(ctx, stream)
	}

	buf := append(append([]byte(nil), chunkBuf...), done[:space]...)
	if err := stream.Send(ctx, wire.WRTE, buf); err != nil {
		return err
	}
	if err := syncRecvOK(ctx, stream); err != nil {
		return err
	}

	if err := stream.Send(ctx, wire.WRTE, done[space:]); err != nil {
		return err
	}
	return syncRecvOK(ctx, stream)
}

func sendSyncPacket(ctx context.Context, stream *Stream, p syncproto.Packet) error {
	return stream.Send(ctx, wire.WRTE, p.Buf)
}

// syncRecv is a SYNC-aware recv: it peeks every inbound WRTE whose payload
// is exactly 8 bytes for a FAIL marker and, if found, drains the stream
// until the accompanying message WRTE arrives and returns it as a Fail
// error.
func syncRecv(ctx context.Context, stream *Stream) (wire.Command, []byte, error) {
	cmd, payload, err := stream.Recv(ctx)
	if err != nil {
		return 0, nil, err
	}
	if cmd == wire.WRTE && len(payload) == syncproto.HeaderSize {
		if h, ok := syncproto.DecodeHeader(payload); ok && h.ID == syncproto.FAIL {
			return 0, nil, syncFailDrain(ctx, stream, h.Length)
		}
	}
	return cmd, payload, nil
}

func syncFailDrain(ctx context.Context, stream *Stream, msgLen uint32) error {
	for {
		cmd, payload, err := stream.Recv(ctx)
		if err != nil {
			return adberrors.Disconnected()
		}
		switch cmd {
		case wire.OKAY:
			if err := stream.SendOK(ctx); err != nil {
				return err
			}
		case wire.WRTE:
			n := int(msgLen)
			if n > len(payload) {
				n = len(payload)
			}
			return adberrors.Fail(string(payload[:n]))
		default:
			return adberrors.UnexpectedCommand(cmd)
		}
	}
}

func syncRecvOK(ctx context.Context, stream *Stream) error {
	cmd, _, err := syncRecv(ctx, stream)
	if err != nil {
		return err
	}
	if cmd != wire.OKAY {
		return adberrors.UnexpectedCommand(cmd)
	}
	return nil
}

func syncRecvWRTE(ctx context.Context, stream *Stream) ([]byte, error) {
	cmd, payload, err := syncRecv(ctx, stream)
	if err != nil {
		return nil, err
	}
	if cmd != wire.WRTE {
		return nil, adberrors.UnexpectedCommand(cmd)
	}
	return payload, nil
}
