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

/*
Package errors provides the structured error taxonomy returned by the adb
client.

The taxonomy implements:
  - Kinds covering every failure mode the wire and transport layers can
    surface (I/O, checksum, auth, unrecognized or out-of-sequence
    opcodes, unexpected payload, disconnection, and SYNC-layer FAIL)
  - A single concrete type, Error, usable with errors.Is/errors.As
  - Constructors per kind, and Is* helpers for callers that only care
    about the category
*/
package errors

import (
	"fmt"

	"goadb/internal/wire"
)

// Kind identifies the category of an Error.
type Kind int

const (
	// KindIO covers failed reads/writes on the underlying transport.
	KindIO Kind = iota
	// KindCrc is returned when a decoded payload's checksum does not match.
	KindCrc
	// KindAuthNotSupported is returned when the peer requests AUTH; this
	// client does not implement the RSA challenge/response handshake.
	KindAuthNotSupported
	// KindUnknownCommand is returned when a header carries an opcode this
	// client does not recognize.
	KindUnknownCommand
	// KindUnexpectedCommand is returned when a recognized opcode arrives
	// out of the sequence the caller was expecting.
	KindUnexpectedCommand
	// KindUnexpectedData is returned when a payload doesn't match the
	// shape a caller expected (wrong length, malformed text, and so on).
	KindUnexpectedData
	// KindDisconnected is returned when the stream or connection is
	// found closed.
	KindDisconnected
	// KindFail is returned when the SYNC layer's peer responds FAIL; the
	// error carries the peer's message text.
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindCrc:
		return "CRC"
	case KindAuthNotSupported:
		return "AUTH_NOT_SUPPORTED"
	case KindUnknownCommand:
		return "UNKNOWN_COMMAND"
	case KindUnexpectedCommand:
		return "UNEXPECTED_COMMAND"
	case KindUnexpectedData:
		return "UNEXPECTED_DATA"
	case KindDisconnected:
		return "DISCONNECTED"
	case KindFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Error is the client's single concrete error type. Fields beyond Kind are
// populated only for the kinds that carry extra context.
type Error struct {
	Kind Kind

	// RawCommand is set for KindUnknownCommand (the raw, unrecognized
	// opcode); Command is set for KindUnexpectedCommand (the recognized
	// opcode that arrived out of sequence).
	RawCommand uint32
	Command    wire.Command

	// Data is set for KindUnexpectedData: the unexpected bytes received.
	Data []byte

	// Message carries the detail string for KindFail (the peer's FAIL
	// text) and any other kind that has a free-form reason.
	Message string

	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		if e.Cause != nil {
			return fmt.Sprintf("adb: i/o error: %v", e.Cause)
		}
		return "adb: i/o error"
	case KindCrc:
		return "adb: checksum mismatch"
	case KindAuthNotSupported:
		return "adb: device requested AUTH, which this client does not support"
	case KindUnknownCommand:
		return fmt.Sprintf("adb: unrecognized command 0x%08x", e.RawCommand)
	case KindUnexpectedCommand:
		return fmt.Sprintf("adb: unexpected command %s", e.Command)
	case KindUnexpectedData:
		return fmt.Sprintf("adb: unexpected data (%d bytes): %s", len(e.Data), e.Message)
	case KindDisconnected:
		return "adb: connection closed"
	case KindFail:
		return fmt.Sprintf("adb: device reported failure: %s", e.Message)
	default:
		return "adb: unknown error"
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IO wraps a transport-level read/write failure.
func IO(cause error) *Error {
	return &Error{Kind: KindIO, Cause: cause}
}

// Crc reports a checksum mismatch detected while decoding a payload.
func Crc() *Error {
	return &Error{Kind: KindCrc}
}

// AuthNotSupported reports that the peer demanded AUTH.
func AuthNotSupported() *Error {
	return &Error{Kind: KindAuthNotSupported}
}

// UnknownCommand reports a header opcode this client does not recognize.
func UnknownCommand(raw uint32) *Error {
	return &Error{Kind: KindUnknownCommand, RawCommand: raw}
}

// UnexpectedCommand reports a recognized opcode that arrived out of the
// sequence the caller expected.
func UnexpectedCommand(cmd wire.Command) *Error {
	return &Error{Kind: KindUnexpectedCommand, Command: cmd}
}

// FromUnexpectedCommandU32 builds the appropriate error for a raw opcode
// read off the wire: UnknownCommand if unrecognized, else
// UnexpectedCommand.
func FromUnexpectedCommandU32(raw uint32) *Error {
	cmd, ok := wire.FromUint32(raw)
	if !ok {
		return UnknownCommand(raw)
	}
	return UnexpectedCommand(cmd)
}

// UnexpectedData reports a payload that didn't match the shape a caller
// expected. data carries the offending bytes and reason says what was wrong
// with them.
func UnexpectedData(data []byte, reason string) *Error {
	return &Error{Kind: KindUnexpectedData, Data: data, Message: reason}
}

// Disconnected reports that the stream or connection is closed.
func Disconnected() *Error {
	return &Error{Kind: KindDisconnected}
}

// Fail reports a SYNC-layer FAIL response, carrying the peer's message.
func Fail(message string) *Error {
	return &Error{Kind: KindFail, Message: message}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}

// IsDisconnected reports whether err signals a closed connection or stream.
func IsDisconnected(err error) bool {
	return IsKind(err, KindDisconnected)
}

// IsFail reports whether err is a SYNC-layer FAIL response.
func IsFail(err error) bool {
	return IsKind(err, KindFail)
}
