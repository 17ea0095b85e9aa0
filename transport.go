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
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	adberrors "goadb/internal/errors"
	"goadb/internal/logging"
	"goadb/internal/metrics"
	"goadb/internal/wire"
)

// packet is one decoded (header, payload) pair moving from the reader to
// the dispatcher.
type packet struct {
	header  wire.Header
	payload []byte
}

// writeRequest is one encode-and-send job handed to the writer.
type writeRequest struct {
	header  wire.Header
	payload []byte
}

// streamContext is the dispatcher/writer-visible half of an open logical
// stream. inbound and writeAck are both capacity 1, matching the spec's
// per-stream mailbox sizing: a caller that stops reading applies
// backpressure all the way to the network.
type streamContext struct {
	localID  uint32
	remoteID uint32 // set once, after the OKAY reply to OPEN

	inbound  chan packet
	writeAck chan error

	done     chan struct{}
	doneOnce sync.Once
}

func newStreamContext(localID uint32) *streamContext {
	return &streamContext{
		localID:  localID,
		inbound:  make(chan packet, 1),
		writeAck: make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (sc *streamContext) release() {
	sc.doneOnce.Do(func() { close(sc.done) })
}

// Connection is a live session with a single adbd, established by the CNXN
// handshake (no AUTH exchange takes place). It owns
// the TCP transport and the reader/writer/dispatcher goroutine trio that
// multiplex logical streams over it.
type Connection struct {
	transport net.Conn

	// sessionID tags every log line this connection emits so concurrent
	// connections can be told apart in aggregated log output.
	sessionID string

	systemIdentity string
	deviceIdentity string
	deviceVersion  uint32
	deviceMaxData  uint32

	localIDCounter uint32 // atomic, pre-incremented; first stream id is 1

	mu      sync.RWMutex
	streams map[uint32]*streamContext

	writeCh    chan writeRequest
	dispatchCh chan packet

	group  *errgroup.Group
	cancel context.CancelFunc

	closeOnce sync.Once

	metrics *metrics.Collector
}

// SetMetrics attaches a metrics collector to record stream and byte
// counters. Nil is safe (and the default) and disables instrumentation.
func (c *Connection) SetMetrics(collector *metrics.Collector) {
	c.metrics = collector
}

// Connect dials addr over TCP and performs the CNXN handshake, identifying
// this client to the device as systemIdentity. On success it spawns the
// reader, writer, and dispatcher goroutines and returns a ready
// Connection.
func Connect(ctx context.Context, systemIdentity, addr string) (*Connection, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, adberrors.IO(err)
	}

	if err := performHandshakeSend(conn, systemIdentity); err != nil {
		conn.Close()
		return nil, err
	}

	deviceVersion, deviceMaxData, deviceIdentity, err := performHandshakeRecv(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	groupCtx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(groupCtx)

	c := &Connection{
		transport:      conn,
		sessionID:      uuid.NewString(),
		systemIdentity: systemIdentity,
		deviceIdentity: deviceIdentity,
		deviceVersion:  deviceVersion,
		deviceMaxData:  deviceMaxData,
		streams:        make(map[uint32]*streamContext),
		writeCh:        make(chan writeRequest),
		dispatchCh:     make(chan packet),
		group:          group,
		cancel:         cancel,
	}

	group.Go(func() error { return c.runReader(gctx) })
	group.Go(func() error { return c.runWriter(gctx) })
	group.Go(func() error { return c.runDispatcher(gctx) })

	return c, nil
}

func performHandshakeSend(conn net.Conn, systemIdentity string) error {
	payload := []byte(systemIdentity)
	h := wire.NewHeader(wire.CNXN).Arg0(wire.Version).Arg1(wire.MaxData).Data(payload).Build()
	if err := wire.EncodeHeader(conn, h); err != nil {
		return adberrors.IO(err)
	}
	if len(payload) > 0 {
		if _, err := conn.Write(payload); err != nil {
			return adberrors.IO(err)
		}
	}
	return nil
}

func performHandshakeRecv(conn net.Conn) (version, maxData uint32, identity string, err error) {
	h, err := wire.DecodeHeader(conn)
	if err != nil {
		return 0, 0, "", translateIOErr(err)
	}

	switch h.Command {
	case wire.CNXN:
		payload, err := wire.ReadAndVerifyPayload(conn, h)
		if err != nil {
			if errors.Is(err, wire.ErrChecksumMismatch) {
				return 0, 0, "", adberrors.Crc()
			}
			return 0, 0, "", adberrors.IO(err)
		}
		return h.Arg0, h.Arg1, string(payload), nil
	case wire.AUTH:
		return 0, 0, "", adberrors.AuthNotSupported()
	default:
		return 0, 0, "", adberrors.FromUnexpectedCommandU32(uint32(h.Command))
	}
}

// translateIOErr maps a closed/EOF'd transport to Disconnected, and
// anything else to a wrapped IO error.
func translateIOErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return adberrors.Disconnected()
	}
	return adberrors.IO(err)
}

// MaxDataLen returns the device's advertised maximum payload size, as
// learned from the CNXN handshake.
func (c *Connection) MaxDataLen() int {
	return int(c.deviceMaxData)
}

// SessionID returns the connection's log-correlation identifier.
func (c *Connection) SessionID() string {
	return c.sessionID
}

// sessionLog returns component's logger with this connection's session id
// attached, so log lines from concurrent connections can be told apart.
func (c *Connection) sessionLog(component string) zerolog.Logger {
	return logging.With(component).With().Str("session", c.sessionID).Logger()
}

// DeviceIdentity returns the identity string the device sent in its CNXN
// reply.
func (c *Connection) DeviceIdentity() string {
	return c.deviceIdentity
}

// OpenStream opens a new logical stream to destination (e.g. "shell:ls",
// "sync:") and waits for the device's OKAY.
func (c *Connection) OpenStream(ctx context.Context, destination string) (*Stream, error) {
	localID := atomic.AddUint32(&c.localIDCounter, 1)
	sctx := newStreamContext(localID)

	c.mu.Lock()
	c.streams[localID] = sctx
	c.mu.Unlock()

	payload := append([]byte(destination), 0)
	h := wire.NewHeader(wire.OPEN).Arg0(localID).Data(payload).Build()

	if err := c.enqueueWrite(ctx, h, payload, sctx); err != nil {
		c.removeStream(localID)
		return nil, err
	}

	pkt, err := c.waitInbound(ctx, sctx)
	if err != nil {
		c.removeStream(localID)
		return nil, err
	}

	if pkt.header.Command != wire.OKAY {
		c.removeStream(localID)
		return nil, adberrors.FromUnexpectedCommandU32(uint32(pkt.header.Command))
	}

	sctx.remoteID = pkt.header.Arg0
	c.metrics.StreamOpened()
	return &Stream{conn: c, localID: localID, remoteID: sctx.remoteID, ctx: sctx}, nil
}

// removeStream drops a stream from the registry. Safe to call more than
// once and safe to call for an id that was never registered.
func (c *Connection) removeStream(localID uint32) {
	c.mu.Lock()
	if sctx, ok := c.streams[localID]; ok {
		delete(c.streams, localID)
		c.mu.Unlock()
		sctx.release()
		c.metrics.StreamClosed()
		return
	}
	c.mu.Unlock()
}

// enqueueWrite hands a packet to the writer and blocks for its per-packet
// acknowledgement, making send synchronous from the caller's point of
// view.
func (c *Connection) enqueueWrite(ctx context.Context, h wire.Header, payload []byte, sctx *streamContext) error {
	req := writeRequest{header: h, payload: payload}

	select {
	case c.writeCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-sctx.done:
		return adberrors.Disconnected()
	}

	select {
	case err := <-sctx.writeAck:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-sctx.done:
		return adberrors.Disconnected()
	}
}

// waitInbound blocks for the next packet routed to sctx by the dispatcher.
func (c *Connection) waitInbound(ctx context.Context, sctx *streamContext) (packet, error) {
	select {
	case pkt, ok := <-sctx.inbound:
		if !ok {
			return packet{}, adberrors.Disconnected()
		}
		return pkt, nil
	case <-ctx.Done():
		return packet{}, ctx.Err()
	case <-sctx.done:
		return packet{}, adberrors.Disconnected()
	}
}

// Close closes the underlying transport and waits for the reader, writer,
// and dispatcher goroutines to exit. It is idempotent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.transport.Close()
	})
	_ = c.group.Wait()
	return nil
}

// runReader decodes frames off the transport and forwards them to the
// dispatcher. Per the spec's open question, it does not recompute the
// checksum of ordinary stream payloads; only the handshake is verified.
func (c *Connection) runReader(ctx context.Context) error {
	log := c.sessionLog("reader")
	for {
		h, err := wire.DecodeHeader(c.transport)
		if err != nil {
			return translateIOErr(err)
		}

		var payload []byte
		if h.DataLength > 0 {
			payload, err = wire.ReadPayload(c.transport, h.DataLength)
			if err != nil {
				return translateIOErr(err)
			}
			c.metrics.BytesReceived(len(payload))
		}

		select {
		case c.dispatchCh <- packet{header: h, payload: payload}:
		case <-ctx.Done():
			log.Debug().Msg("reader exiting on context cancellation")
			return ctx.Err()
		}
	}
}

// runWriter serializes outbound packets: a single pending write is in
// flight at a time, with no batching or coalescing.
func (c *Connection) runWriter(ctx context.Context) error {
	log := c.sessionLog("writer")
	for {
		select {
		case req := <-c.writeCh:
			c.mu.RLock()
			sctx, exists := c.streams[req.header.Arg0]
			c.mu.RUnlock()

			if !exists {
				log.Warn().Uint32("local_id", req.header.Arg0).Msg("discarding packet for unknown stream")
				continue
			}

			writeErr := c.writeFrame(req.header, req.payload)
			select {
			case sctx.writeAck <- writeErr:
			case <-sctx.done:
			}
			if writeErr != nil {
				log.Error().Err(writeErr).Msg("writer exiting after transport write failure")
				return writeErr
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Connection) writeFrame(h wire.Header, payload []byte) error {
	if err := wire.EncodeHeader(c.transport, h); err != nil {
		return translateIOErr(err)
	}
	if len(payload) > 0 {
		if _, err := c.transport.Write(payload); err != nil {
			return translateIOErr(err)
		}
		c.metrics.BytesSent(len(payload))
	}
	return nil
}

// runDispatcher routes inbound packets, keyed by the peer's echo of our
// local id in header.Arg1, to the owning stream's inbound mailbox.
func (c *Connection) runDispatcher(ctx context.Context) error {
	log := c.sessionLog("dispatcher")
	for {
		select {
		case pkt := <-c.dispatchCh:
			c.mu.RLock()
			sctx, exists := c.streams[pkt.header.Arg1]
			c.mu.RUnlock()

			if !exists {
				log.Warn().Uint32("local_id", pkt.header.Arg1).Msg("dropping packet for unknown stream")
				continue
			}
			if _, ok := wire.FromUint32(uint32(pkt.header.Command)); !ok {
				log.Error().Uint32("command", uint32(pkt.header.Command)).Msg("dropping packet with unrecognized opcode")
				c.metrics.ProtocolError(adberrors.KindUnknownCommand.String())
				continue
			}

			select {
			case sctx.inbound <- pkt:
			case <-sctx.done:
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
