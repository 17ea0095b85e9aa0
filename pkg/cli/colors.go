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
Package cli provides shared status-printing and progress utilities for
adbc, the command-line client in cmd/adbc.
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
)

// ColorsEnabled reports whether fatih/color will emit ANSI escapes for the
// current output stream (it auto-detects NO_COLOR and non-terminal stdout).
func ColorsEnabled() bool {
	return !color.NoColor
}

// Success formats text as a success message (green).
func Success(text string) string { return successColor.Sprint(text) }

// Error formats text as an error message (red).
func Error(text string) string { return errorColor.Sprint(text) }

// Warning formats text as a warning message (yellow).
func Warning(text string) string { return warningColor.Sprint(text) }

// Info formats text as an info message (cyan).
func Info(text string) string { return infoColor.Sprint(text) }

// Highlight formats text as highlighted (bold).
func Highlight(text string) string { return boldColor.Sprint(text) }

// Dimmed formats text as dimmed.
func Dimmed(text string) string { return dimColor.Sprint(text) }

// SuccessIcon returns a green checkmark.
func SuccessIcon() string { return successColor.Sprint("✓") }

// ErrorIcon returns a red X.
func ErrorIcon() string { return errorColor.Sprint("✗") }

// WarningIcon returns a yellow warning sign.
func WarningIcon() string { return warningColor.Sprint("⚠") }

// InfoIcon returns a cyan info icon.
func InfoIcon() string { return infoColor.Sprint("ℹ") }

// PrintSuccess prints a success message with icon.
func PrintSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", SuccessIcon(), Success(fmt.Sprintf(format, args...)))
}

// PrintError prints an error message with icon.
func PrintError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", ErrorIcon(), Error(fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message with icon.
func PrintWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", WarningIcon(), Warning(fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message with icon.
func PrintInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", InfoIcon(), Info(fmt.Sprintf(format, args...)))
}

// Separator returns a horizontal line separator.
func Separator(width int) string {
	return strings.Repeat("─", width)
}
