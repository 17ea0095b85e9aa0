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

package cli

import (
	"fmt"
	"os"
)

// CLIError represents a CLI error with suggestions.
type CLIError struct {
	Message     string
	Detail      string
	Suggestions []string
	ExitCode    int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Print prints the error with formatting.
func (e *CLIError) Print() {
	fmt.Printf("\n%s %s\n", ErrorIcon(), Error(e.Message))

	if e.Detail != "" {
		fmt.Printf("  %s\n", Dimmed(e.Detail))
	}

	if len(e.Suggestions) > 0 {
		fmt.Println()
		fmt.Printf("  %s\n", Highlight("Suggestions:"))
		for _, s := range e.Suggestions {
			fmt.Printf("    • %s\n", s)
		}
	}
	fmt.Println()
}

// Exit prints the error and exits with the error code.
func (e *CLIError) Exit() {
	e.Print()
	os.Exit(e.ExitCode)
}

// NewCLIError creates a new CLI error.
func NewCLIError(message string) *CLIError {
	return &CLIError{
		Message:  message,
		ExitCode: 1,
	}
}

// WithDetail adds detail to the error.
func (e *CLIError) WithDetail(detail string) *CLIError {
	e.Detail = detail
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithExitCode sets the exit code.
func (e *CLIError) WithExitCode(code int) *CLIError {
	e.ExitCode = code
	return e
}

// Common adbc errors with helpful suggestions.

// ErrConnectionFailed creates a device transport connection failure error.
func ErrConnectionFailed(addr string, err error) *CLIError {
	return NewCLIError("Failed to connect to the device transport").
		WithDetail(fmt.Sprintf("Could not connect to %s - %v", addr, err)).
		WithSuggestion("Confirm a device or emulator is listening at that address").
		WithSuggestion("Pass --device host:port to target a different transport").
		WithSuggestion("Check adbc host version against the local adb server")
}

// ErrAuthNotSupported creates an error for a device that demands an AUTH
// challenge this client cannot answer.
func ErrAuthNotSupported() *CLIError {
	return NewCLIError("Device requires authentication this client does not support").
		WithDetail("The device replied AUTH instead of CNXN during the handshake").
		WithSuggestion("Authorize this host on the device once via the stock adb client, then retry")
}

// ErrSyncFailed creates an error for a SYNC-layer FAIL response during push.
func ErrSyncFailed(remotePath, reason string) *CLIError {
	return NewCLIError(fmt.Sprintf("Push to %s failed", remotePath)).
		WithDetail(reason).
		WithSuggestion("Verify the remote directory exists and is writable")
}

// ErrConfigNotFound creates a config file not found error.
func ErrConfigNotFound(path string) *CLIError {
	return NewCLIError("Configuration file not found").
		WithDetail(fmt.Sprintf("Could not find: %s", path)).
		WithSuggestion("Create a configuration file or use command-line flags").
		WithSuggestion("Run with --help to see available options")
}
