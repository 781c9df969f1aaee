// SPDX-License-Identifier: MPL-2.0

package versionsync

import (
	"errors"
	"fmt"

	"github.com/pwcc/wplint/pkg/violation"

	"golang.org/x/mod/semver"
)

var (
	// ErrVersionMismatch is the sentinel error wrapped by VersionMismatchError.
	ErrVersionMismatch = errors.New("version mismatch")
	// ErrUnexpectedVersionKey is the sentinel error wrapped by UnexpectedVersionKeyError.
	ErrUnexpectedVersionKey = errors.New("unexpected version key")
	// ErrNoCanonicalVersion is returned when no canonical version source yields a value.
	ErrNoCanonicalVersion = errors.New("no canonical plugin version found")
)

type (
	// VersionMismatchError reports an artifact field that disagrees with the
	// canonical version. Missing is set when the field is not declared at all.
	VersionMismatchError struct {
		Artifact string
		Field    string
		Want     string
		Got      string
		Missing  bool
	}

	// UnexpectedVersionKeyError reports a version key in a descriptor whose
	// version must come from release tags.
	UnexpectedVersionKeyError struct {
		Artifact string
		Value    string
	}
)

// Error implements the error interface.
func (e *VersionMismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("the %s in %s is missing; expected %q", e.Field, e.Artifact, e.Want)
	}
	msg := fmt.Sprintf("the %s in %s (%q) does not match the plugin version %q", e.Field, e.Artifact, e.Got, e.Want)
	if d := direction(e.Got, e.Want); d != "" {
		msg += " (" + d + ")"
	}
	return msg
}

// Unwrap returns ErrVersionMismatch for errors.Is() compatibility.
func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// Code implements violation.Violation.
func (e *VersionMismatchError) Code() violation.Code { return violation.CodeVersionMismatch }

// Subject implements violation.Violation.
func (e *VersionMismatchError) Subject() string { return e.Artifact + ":" + e.Field }

// Error implements the error interface.
func (e *UnexpectedVersionKeyError) Error() string {
	return fmt.Sprintf("the version key should not be present in %s (found %s)", e.Artifact, e.Value)
}

// Unwrap returns ErrUnexpectedVersionKey for errors.Is() compatibility.
func (e *UnexpectedVersionKeyError) Unwrap() error { return ErrUnexpectedVersionKey }

// Code implements violation.Violation.
func (e *UnexpectedVersionKeyError) Code() violation.Code { return violation.CodeUnexpectedVersionKey }

// Subject implements violation.Violation.
func (e *UnexpectedVersionKeyError) Subject() string { return e.Artifact + ":version" }

// direction describes got relative to want when both are semantic versions.
func direction(got, want string) string {
	g, w := "v"+got, "v"+want
	if !semver.IsValid(g) || !semver.IsValid(w) {
		return ""
	}
	switch semver.Compare(g, w) {
	case -1:
		return "behind"
	case 1:
		return "ahead"
	default:
		return ""
	}
}
