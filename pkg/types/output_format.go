// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatText renders a styled, human-readable report.
	FormatText OutputFormat = "text"
	// FormatJSON renders the report as JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders the report as YAML.
	FormatYAML OutputFormat = "yaml"
)

// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// OutputFormat selects how a validation report is rendered.
	// The zero value ("") is treated as FormatText.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat is not one of
	// the supported formats.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}
)

// OutputFormats returns the supported formats in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatYAML}
}

// ParseOutputFormat normalizes s and validates it.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	return f, nil
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the supported formats.
// The zero value is valid and means FormatText.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case "", FormatText, FormatJSON, FormatYAML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }
