// SPDX-License-Identifier: MPL-2.0

package header

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LevelOptional headers may or may not be declared.
	LevelOptional Level = "optional"
	// LevelRequired headers must be declared with a non-empty value.
	LevelRequired Level = "required"
	// LevelForbidden headers must not be declared at all.
	LevelForbidden Level = "forbidden"

	// FileReadme is the plugin directory readme (readme.txt).
	FileReadme FileKind = "readme"
	// FilePlugin is the main plugin PHP file.
	FilePlugin FileKind = "plugin"
)

var (
	// ErrInvalidLevel is the sentinel error wrapped by InvalidLevelError.
	ErrInvalidLevel = errors.New("invalid requirement level")

	// ErrInvalidFileKind is the sentinel error wrapped by InvalidFileKindError.
	ErrInvalidFileKind = errors.New("invalid file kind")
)

type (
	// Level is the requirement level of a header within one file kind.
	Level string

	// FileKind identifies which metadata-bearing file a header belongs to.
	FileKind string

	// InvalidLevelError is returned when a Level is not one of the known levels.
	InvalidLevelError struct {
		Value Level
	}

	// InvalidFileKindError is returned when a FileKind is not readme or plugin.
	InvalidFileKindError struct {
		Value FileKind
	}
)

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if ok, errs := l.IsValid(); !ok {
		return "", errs[0]
	}
	return l, nil
}

// String returns the string representation of the Level.
func (l Level) String() string { return string(l) }

// IsValid returns whether the Level is one of the known levels.
func (l Level) IsValid() (bool, []error) {
	switch l {
	case LevelOptional, LevelRequired, LevelForbidden:
		return true, nil
	default:
		return false, []error{&InvalidLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid requirement level %q (valid: optional, required, forbidden)", e.Value)
}

// Unwrap returns ErrInvalidLevel for errors.Is() compatibility.
func (e *InvalidLevelError) Unwrap() error { return ErrInvalidLevel }

// String returns the string representation of the FileKind.
func (k FileKind) String() string { return string(k) }

// IsValid returns whether the FileKind is readme or plugin.
func (k FileKind) IsValid() (bool, []error) {
	switch k {
	case FileReadme, FilePlugin:
		return true, nil
	default:
		return false, []error{&InvalidFileKindError{Value: k}}
	}
}

// Error implements the error interface.
func (e *InvalidFileKindError) Error() string {
	return fmt.Sprintf("invalid file kind %q (valid: readme, plugin)", e.Value)
}

// Unwrap returns ErrInvalidFileKind for errors.Is() compatibility.
func (e *InvalidFileKindError) Unwrap() error { return ErrInvalidFileKind }
