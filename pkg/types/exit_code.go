// SPDX-License-Identifier: MPL-2.0

// Package types defines value types shared by the command line and the
// validation core. It imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitOK means every check passed (or was suppressed by the baseline).
	ExitOK ExitCode = 0
	// ExitFindings means at least one check failed or could not be evaluated.
	ExitFindings ExitCode = 1
	// ExitFatal means the run itself failed: unreadable mandatory files or
	// invalid configuration.
	ExitFatal ExitCode = 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates a clean run.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// IsFatal returns true if the run aborted before producing a report.
func (c ExitCode) IsFatal() bool { return c == ExitFatal }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
