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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"goadb/internal/hostsvc"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Talk to the local adb server's host service, not a device",
}

var hostVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the local adb server's version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		version, err := hostsvc.New(cfg.HostServiceAddr).Version(ctx)
		if err != nil {
			return fmt.Errorf("querying host version: %w", err)
		}
		fmt.Println(color.New(color.Bold).Sprint("server version: "), version)
		return nil
	},
}

var hostKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Ask the local adb server to terminate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := hostsvc.New(cfg.HostServiceAddr).Kill(ctx); err != nil {
			return fmt.Errorf("killing host server: %w", err)
		}
		fmt.Println(color.New(color.FgYellow).Sprint("server shutdown requested"))
		return nil
	},
}
