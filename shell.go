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
	"goadb/internal/logging"
	"goadb/internal/wire"
)

// ShellExec runs cmd on the device's shell service and returns the
// accumulated stdout/stderr bytes the device wrote before closing the
// stream.
func ShellExec(ctx context.Context, conn *Connection, cmd string) ([]byte, error) {
	stream, err := conn.OpenStream(ctx, "shell:"+cmd)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	log := logging.With("shell")
	var out []byte
	for {
		command, payload, err := stream.Recv(ctx)
		if err != nil {
			return nil, err
		}

		switch command {
		case wire.WRTE:
			out = append(out, payload...)
			if err := stream.SendOK(ctx); err != nil {
				return nil, err
			}
		case wire.CLSE:
			log.Debug().Int("bytes", len(out)).Msg("shell exec complete")
			return out, nil
		default:
			return nil, adberrors.UnexpectedCommand(command)
		}
	}
}
