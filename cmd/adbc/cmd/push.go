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
	"fmt"

	"github.com/spf13/cobra"

	adb "goadb"
	"goadb/pkg/cli"
)

var pushCmd = &cobra.Command{
	Use:   "push <local> <remote>",
	Short: "Push a local file to the device over the sync service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		local, remote := args[0], args[1]

		conn, cancel, err := connectDevice(ctx)
		if err != nil {
			return fmt.Errorf("connecting to device: %w", err)
		}
		defer cancel()
		defer conn.Close()

		spinner := cli.NewSpinner(fmt.Sprintf("pushing %s", local))
		spinner.Start()

		if err := adb.Push(ctx, conn, local, remote); err != nil {
			spinner.StopWithError(fmt.Sprintf("push failed: %v", err))
			return err
		}

		spinner.StopWithSuccess(fmt.Sprintf("%s -> %s", local, remote))
		return nil
	},
}
