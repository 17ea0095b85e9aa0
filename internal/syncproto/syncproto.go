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
Package syncproto implements the SYNC sub-protocol nested inside WRTE
payloads on an opened "sync:" stream.

Frame Format:
=============

	+--------+--------+
	|   id   | length |
	+--------+--------+
	   u32      u32

8 bytes: a 4-byte ASCII command tag and a length whose meaning depends on
the tag (payload length for STAT/SEND/DATA, mtime-seconds for DONE, zero
for QUIT, message length for FAIL).
*/
package syncproto

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Command is a SYNC-layer 4-byte tag.
type Command uint32

const (
	LIST Command = 0x5453494C
	RECV Command = 0x56434552
	SEND Command = 0x444E4553
	STAT Command = 0x54415453
	DATA Command = 0x41544144
	DENT Command = 0x544E4544
	OKAY Command = 0x59414B4F
	DONE Command = 0x454E4F44
	QUIT Command = 0x54495551
	FAIL Command = 0x4C494146
)

// HeaderSize is the size of an encoded SyncHeader.
const HeaderSize = 8

// Header is the 8-byte SYNC frame header.
type Header struct {
	ID     Command
	Length uint32
}

// Encode writes the header as 8 little-endian bytes.
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.ID))
	binary.LittleEndian.PutUint32(buf[4:8], h.Length)
	return buf
}

// DecodeHeader parses an 8-byte SYNC header. It reports false if b is not
// exactly 8 bytes long.
func DecodeHeader(b []byte) (Header, bool) {
	if len(b) != HeaderSize {
		return Header{}, false
	}
	return Header{
		ID:     Command(binary.LittleEndian.Uint32(b[0:4])),
		Length: binary.LittleEndian.Uint32(b[4:8]),
	}, true
}

// Packet is a SYNC frame assembled as a single contiguous buffer: an
// 8-byte header followed by its body, ready to hand to Stream.Send as one
// WRTE payload.
type Packet struct {
	Header Header
	Buf    []byte
}

// NewStat builds a STAT request for path: SyncHeader{STAT, len(path)+1} +
// path + NUL.
func NewStat(path string) Packet {
	body := append([]byte(path), 0)
	return newPacket(STAT, body)
}

// NewSend builds a SEND request: SyncHeader{SEND, len(arg)} + "<path>,<mode>".
func NewSend(path string, mode uint32) Packet {
	body := []byte(fmt.Sprintf("%s,%d", path, mode))
	return newPacket(SEND, body)
}

func newPacket(id Command, body []byte) Packet {
	h := Header{ID: id, Length: uint32(len(body))}
	buf := make([]byte, 0, HeaderSize+len(body))
	enc := h.Encode()
	buf = append(buf, enc[:]...)
	buf = append(buf, body...)
	return Packet{Header: h, Buf: buf}
}

// NewDataChunk allocates a DATA chunk buffer of the given total capacity
// (device_max_data), with the 8-byte header pre-reserved at the front.
// ReadChunk fills the body and fixes up the header's length field.
func NewDataChunk(capacity int) Packet {
	return Packet{
		Header: Header{ID: DATA},
		Buf:    make([]byte, HeaderSize, capacity),
	}
}

// ReadChunk reads up to cap(p.Buf)-HeaderSize bytes from r into the chunk
// body, then rewrites the header with the actual byte count. It returns 0,
// nil at end of file, matching io.Reader's "0, nil only at EOF without data"
// contract via a single bounded Read.
func (p *Packet) ReadChunk(r io.Reader) (int, error) {
	body := p.Buf[HeaderSize:cap(p.Buf)]
	n, err := r.Read(body)
	if err != nil && err != io.EOF {
		return 0, err
	}
	p.Header.Length = uint32(n)
	p.Buf = p.Buf[:HeaderSize+n]
	enc := p.Header.Encode()
	copy(p.Buf[0:HeaderSize], enc[:])
	if err == io.EOF {
		return n, nil
	}
	return n, nil
}

// NewDone builds the 8-byte DONE marker, length set to the mtime in
// seconds since the Unix epoch.
func NewDone(mtime uint32) [HeaderSize]byte {
	return Header{ID: DONE, Length: mtime}.Encode()
}

// NewQuit builds the 8-byte QUIT marker (zero length).
func NewQuit() [HeaderSize]byte {
	return Header{ID: QUIT}.Encode()
}
