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

	adberrors "goadb/internal/errors"
	"goadb/internal/wire"
)

// Stream is a single logical stream multiplexed over a Connection's
// transport. Every operation is synchronous from the caller's point of
// view, even though the connection's writer and dispatcher run on
// separate goroutines.
type Stream struct {
	conn     *Connection
	localID  uint32
	remoteID uint32
	ctx      *streamContext
}

// LocalID returns this stream's locally-assigned id.
func (s *Stream) LocalID() uint32 { return s.localID }

// RemoteID returns the peer-assigned id learned from the OPEN/OKAY
// exchange.
func (s *Stream) RemoteID() uint32 { return s.remoteID }

// Send encodes cmd and payload as a single frame addressed to this stream
// and blocks until the writer has emitted it (or the connection dies).
func (s *Stream) Send(ctx context.Context, cmd wire.Command, payload []byte) error {
	h := wire.NewHeader(cmd).Arg0(s.localID).Arg1(s.remoteID).Data(payload).Build()
	return s.conn.enqueueWrite(ctx, h, payload, s.ctx)
}

// Recv blocks for the next packet addressed to this stream and returns
// its command and payload.
func (s *Stream) Recv(ctx context.Context) (wire.Command, []byte, error) {
	pkt, err := s.conn.waitInbound(ctx, s.ctx)
	if err != nil {
		return 0, nil, err
	}
	cmd, ok := wire.FromUint32(uint32(pkt.header.Command))
	if !ok {
		return 0, nil, adberrors.UnknownCommand(uint32(pkt.header.Command))
	}
	return cmd, pkt.payload, nil
}

// TryRecv is the non-blocking variant of Recv: ok is false when nothing is
// pending.
func (s *Stream) TryRecv() (cmd wire.Command, payload []byte, ok bool, err error) {
	select {
	case pkt, open := <-s.ctx.inbound:
		if !open {
			return 0, nil, false, adberrors.Disconnected()
		}
		c, recognized := wire.FromUint32(uint32(pkt.header.Command))
		if !recognized {
			return 0, nil, false, adberrors.UnknownCommand(uint32(pkt.header.Command))
		}
		return c, pkt.payload, true, nil
	default:
		return 0, nil, false, nil
	}
}

// SendOK sends an OKAY with an empty payload.
func (s *Stream) SendOK(ctx context.Context) error {
	return s.Send(ctx, wire.OKAY, nil)
}

// SendClose sends a CLSE with an empty payload.
func (s *Stream) SendClose(ctx context.Context) error {
	return s.Send(ctx, wire.CLSE, nil)
}

// RecvCommand receives the next packet and fails with UnexpectedCommand if
// its opcode is not expected.
func (s *Stream) RecvCommand(ctx context.Context, expected wire.Command) ([]byte, error) {
	cmd, payload, err := s.Recv(ctx)
	if err != nil {
		return nil, err
	}
	if cmd != expected {
		return nil, adberrors.UnexpectedCommand(cmd)
	}
	return payload, nil
}

// Close releases this stream's registry entry. It does not send CLSE;
// callers that want a graceful peer-visible close should call SendClose
// first. Safe to call more than once.
func (s *Stream) Close() error {
	s.conn.removeStream(s.localID)
	return nil
}
