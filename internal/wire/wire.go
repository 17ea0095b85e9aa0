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
Package wire implements the ADB host-transport wire format.

Frame Format:
=============

	+--------+--------+--------+--------+--------+--------+
	|command |  arg0  |  arg1  |datalen |  crc32 |  magic |
	+--------+--------+--------+--------+--------+--------+
	   u32       u32      u32      u32      u32      u32

Six little-endian uint32 fields, 24 bytes total, followed by DataLength
bytes of payload. magic is always command XOR 0xFFFFFFFF; data_crc32 is the
additive sum of the payload bytes modulo 2^32 (not an actual CRC, despite
the name adb itself uses).
*/
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// Command is the connection-level opcode, a 4-byte ASCII tag read
// little-endian. The underlying type stays open (plain uint32) so that an
// opcode the peer sent but this client does not recognize can still be
// carried through decode; callers check recognition with FromUint32.
type Command uint32

// Command values, as tabulated in the ADB host-transport spec.
const (
	SYNC Command = 0x434E5953
	CNXN Command = 0x4E584E43
	AUTH Command = 0x48545541
	OPEN Command = 0x4E45504F
	OKAY Command = 0x59414B4F
	CLSE Command = 0x45534C43
	WRTE Command = 0x45545257
)

func (c Command) String() string {
	switch c {
	case SYNC:
		return "SYNC"
	case CNXN:
		return "CNXN"
	case AUTH:
		return "AUTH"
	case OPEN:
		return "OPEN"
	case OKAY:
		return "OKAY"
	case CLSE:
		return "CLSE"
	case WRTE:
		return "WRTE"
	default:
		return "UNKNOWN"
	}
}

// FromUint32 reports whether v is one of the recognized Command values.
func FromUint32(v uint32) (Command, bool) {
	switch Command(v) {
	case SYNC, CNXN, AUTH, OPEN, OKAY, CLSE, WRTE:
		return Command(v), true
	default:
		return Command(v), false
	}
}

// Protocol-level constants used during the CNXN handshake.
const (
	Version    uint32 = 0x01000000
	MaxData    uint32 = 0x00100000
	HeaderSize        = 24
)

// ErrChecksumMismatch is returned when a decoded payload's additive
// checksum does not match the header's DataCRC32 field. Only the CNXN
// handshake payload is checked this way; stream payloads are not (see
// ReadPayload).
var ErrChecksumMismatch = errors.New("wire: data checksum mismatch")

// Header is the fixed 24-byte ADB packet header.
type Header struct {
	Command    Command
	Arg0       uint32
	Arg1       uint32
	DataLength uint32
	DataCRC32  uint32
	Magic      uint32
}

// Checksum computes the ADB "CRC" of a payload: an additive byte sum modulo
// 2^32. Empty input yields zero.
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

// EncodeHeader writes h as a single 24-byte little-endian write.
func EncodeHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Command))
	binary.LittleEndian.PutUint32(buf[4:8], h.Arg0)
	binary.LittleEndian.PutUint32(buf[8:12], h.Arg1)
	binary.LittleEndian.PutUint32(buf[12:16], h.DataLength)
	binary.LittleEndian.PutUint32(buf[16:20], h.DataCRC32)
	binary.LittleEndian.PutUint32(buf[20:24], h.Magic)
	_, err := w.Write(buf[:])
	return err
}

// DecodeHeader reads exactly 24 bytes and parses the six fields. The magic
// field is not validated on decode (see design notes: adbd itself treats it
// as structural padding); Command carries the raw opcode even when
// unrecognized, so callers can surface it via FromUint32.
func DecodeHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, err
	}
	return Header{
		Command:    Command(binary.LittleEndian.Uint32(buf[0:4])),
		Arg0:       binary.LittleEndian.Uint32(buf[4:8]),
		Arg1:       binary.LittleEndian.Uint32(buf[8:12]),
		DataLength: binary.LittleEndian.Uint32(buf[12:16]),
		DataCRC32:  binary.LittleEndian.Uint32(buf[16:20]),
		Magic:      binary.LittleEndian.Uint32(buf[20:24]),
	}, nil
}

// ReadPayload reads exactly length bytes with no checksum verification.
// Used by the stream reader task, which (per the wire-compatibility note in
// the spec) does not recompute checksums for ordinary stream packets.
func ReadPayload(r io.Reader, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadAndVerifyPayload reads exactly h.DataLength bytes and verifies the
// additive checksum against h.DataCRC32. Used only for the CNXN handshake
// payload.
func ReadAndVerifyPayload(r io.Reader, h Header) ([]byte, error) {
	buf, err := ReadPayload(r, h.DataLength)
	if err != nil {
		return nil, err
	}
	if Checksum(buf) != h.DataCRC32 {
		return nil, ErrChecksumMismatch
	}
	return buf, nil
}

// HeaderBuilder builds a Header for a given Command, auto-deriving Magic
// and, via Data, DataLength/DataCRC32.
type HeaderBuilder struct {
	h Header
}

// NewHeader starts a builder for the given command.
func NewHeader(cmd Command) HeaderBuilder {
	return HeaderBuilder{h: Header{
		Command: cmd,
		Magic:   uint32(cmd) ^ 0xFFFFFFFF,
	}}
}

// Arg0 sets the header's arg0 field.
func (b HeaderBuilder) Arg0(v uint32) HeaderBuilder {
	b.h.Arg0 = v
	return b
}

// Arg1 sets the header's arg1 field.
func (b HeaderBuilder) Arg1(v uint32) HeaderBuilder {
	b.h.Arg1 = v
	return b
}

// Data sets DataLength and DataCRC32 from the given payload.
func (b HeaderBuilder) Data(data []byte) HeaderBuilder {
	b.h.DataLength = uint32(len(data))
	b.h.DataCRC32 = Checksum(data)
	return b
}

// Build finalizes the header.
func (b HeaderBuilder) Build() Header {
	return b.h
}
