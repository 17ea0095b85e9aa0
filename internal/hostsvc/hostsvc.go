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
Package hostsvc is a client for the local adb server's host-service
protocol — a different, much simpler wire format than the device
transport in the adb root package. It talks to the local daemon
(normally 127.0.0.1:5037), not to a device, and is used for requests like
"what version are you" and "shut yourself down" that have nothing to do
with any particular device connection.

Wire format: a request is a 4-hex-digit ASCII length prefix (the byte
count of what follows, uppercase or lowercase hex, here lowercase)
followed by the request text, e.g. "000chost:version". The daemon
replies with a 4-byte ASCII status, "OKAY" or "FAIL". On OKAY, a command
that returns data follows with another 4-hex-digit length prefix and that
many bytes of payload; host:kill returns OKAY with no further payload. On
FAIL, a 4-hex-digit length prefix and that many bytes of human-readable
error text follow.
*/
package hostsvc

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	adberrors "goadb/internal/errors"
	"goadb/internal/logging"
)

// DefaultAddr is the local adb server's conventional listen address.
const DefaultAddr = "127.0.0.1:5037"

// Client talks the host-service protocol to a single adb server address.
type Client struct {
	Addr string
}

// New returns a Client for addr. An empty addr is replaced with
// DefaultAddr.
func New(addr string) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Client{Addr: addr}
}

// Version requests "host:version" and returns the daemon's version
// string.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.request(ctx, "host:version")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// Kill requests "host:kill", asking the daemon to terminate.
func (c *Client) Kill(ctx context.Context) error {
	_, err := c.request(ctx, "host:kill")
	return err
}

func (c *Client) request(ctx context.Context, text string) ([]byte, error) {
	log := logging.With("hostsvc")

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, adberrors.IO(err)
	}
	defer conn.Close()

	if _, err := conn.Write(encodeRequest(text)); err != nil {
		return nil, adberrors.IO(err)
	}

	status := make([]byte, 4)
	if _, err := io.ReadFull(conn, status); err != nil {
		return nil, adberrors.IO(err)
	}

	switch string(status) {
	case "OKAY":
		payload, err := readLengthPrefixed(conn)
		if err != nil && err != io.EOF {
			return nil, adberrors.IO(err)
		}
		log.Debug().Str("request", text).Int("bytes", len(payload)).Msg("host service request ok")
		return payload, nil
	case "FAIL":
		message, err := readLengthPrefixed(conn)
		if err != nil {
			return nil, adberrors.IO(err)
		}
		return nil, adberrors.Fail(string(message))
	default:
		return nil, adberrors.UnexpectedData(status, fmt.Sprintf("unrecognized host-service status %q", status))
	}
}

// encodeRequest prefixes text with its 4-hex-digit length, per the
// host-service wire format.
func encodeRequest(text string) []byte {
	return []byte(fmt.Sprintf("%04x%s", len(text), text))
}

// readLengthPrefixed reads a 4-hex-digit length prefix followed by that
// many bytes. Returns io.EOF (with a nil payload) if the peer closes
// before sending a length prefix, which host:kill's connection typically
// does.
func readLengthPrefixed(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(string(lenBuf), 16, 32)
	if err != nil {
		return nil, adberrors.UnexpectedData(lenBuf, "malformed length prefix")
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
