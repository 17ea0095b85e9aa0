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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	adb "goadb"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command]",
	Short: "Run a command on the device shell, or start an interactive session",
	Long: `With a command given, shell opens "shell:<command>" and prints whatever
the device writes back before closing the stream. With no command, it
starts an interactive REPL: each line you type is run as its own shell
stream, one at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conn, cancel, err := connectDevice(ctx)
		if err != nil {
			return fmt.Errorf("connecting to device: %w", err)
		}
		defer cancel()
		defer conn.Close()

		if len(args) > 0 {
			return runShellOnce(ctx, conn, strings.Join(args, " "))
		}
		return runShellInteractive(ctx, conn)
	},
}

func runShellOnce(ctx context.Context, conn *adb.Connection, command string) error {
	out, err := adb.ShellExec(ctx, conn, command)
	if err != nil {
		return err
	}
	_, err = fmt.Print(string(out))
	return err
}

func runShellInteractive(ctx context.Context, conn *adb.Connection) error {
	prompt := color.New(color.FgCyan, color.Bold).Sprint(conn.DeviceIdentity() + " $ ")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: "",
	})
	if err != nil {
		return fmt.Errorf("starting interactive shell: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if execErr := runShellOnce(ctx, conn, line); execErr != nil {
			fmt.Fprintln(rl.Stderr(), color.New(color.FgRed).Sprint(execErr))
		}
	}
}
