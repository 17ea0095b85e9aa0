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

package cmd

import (
	"context"

	adb "goadb"
)

// connectDevice dials the configured device transport and performs the
// CNXN handshake. cfg.ConnectTimeout bounds the TCP dial only; the
// handshake itself has no deadline.
func connectDevice(ctx context.Context) (*adb.Connection, context.CancelFunc, error) {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	conn, err := adb.Connect(dialCtx, cfg.SystemIdentity, cfg.DeviceAddr)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return conn, cancel, nil
}
