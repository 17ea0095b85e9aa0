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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"goadb/internal/config"
	"goadb/internal/logging"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

const unknownValue = "unknown"

var (
	cfgFile        string
	deviceAddrFlag string
	identityFlag   string
	logLevelFlag   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "adbc",
	Short: "A host-side client for the ADB device transport protocol",
	Long: `adbc talks the ADB wire protocol directly to a device or emulator
transport (by default 127.0.0.1:5555): run shell commands, push files, and
query or kill the local adb server, without shelling out to adb itself.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("device") {
			cfg.DeviceAddr = deviceAddrFlag
		}
		if cmd.Flags().Changed("identity") {
			cfg.SystemIdentity = identityFlag
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevelFlag
		}

		logging.SetLevel(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print adbc's own build version",
	Run: func(cmd *cobra.Command, args []string) {
		ver := orDefault(Version, "dev")
		bt := orDefault(BuildTime, unknownValue)
		gc := orDefault(GitCommit, unknownValue)

		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint("adbc"), ver)
		fmt.Printf("built:  %s\n", bt)
		fmt.Printf("commit: %s\n", gc)
	},
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Execute runs the root command under a context that cancels on
// SIGINT/SIGTERM, exiting the process with a non-zero status on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: "), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.adbc.yaml)")
	rootCmd.PersistentFlags().StringVar(&deviceAddrFlag, "device", "", "device transport address (default 127.0.0.1:5555)")
	rootCmd.PersistentFlags().StringVar(&identityFlag, "identity", "", "system identity sent in the CNXN handshake (default host::)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error (default info)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(metricsCmd)

	hostCmd.AddCommand(hostVersionCmd, hostKillCmd)
}
