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
Package adb is a host-side client for the Android Debug Bridge wire
protocol.

A Connect dials a device's adbd (normally TCP port 5555), performs the
CNXN handshake, and hands back a Connection backed by three supervised
goroutines: a reader that decodes frames off the socket, a writer that
serializes outbound frames, and a dispatcher that routes inbound frames
to the logical stream that owns them. Callers open logical streams with
Connection.OpenStream and talk to individual services (shell, sync)
through the returned Stream, or through the ShellExec and Push adapters
built on top of it.

This package does not implement the AUTH challenge/response handshake;
a device that demands it (rather than accepting the connection outright)
causes Connect to fail with an AuthNotSupported error. It also does not
implement host-side device discovery or mDNS; destinations are dialed by
address. See internal/hostsvc for the separate local-daemon host
protocol (host:version, host:kill) used by the adbc CLI.
*/
package adb
