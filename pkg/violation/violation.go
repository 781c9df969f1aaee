// SPDX-License-Identifier: MPL-2.0

// Package violation defines the taxonomy of metadata consistency violations.
//
// Every checker in wplint reports problems as typed errors that implement
// Violation. The Code identifies the rule that was broken and the Subject
// identifies what broke it (a header, an artifact field, an asset file), so the
// pair is a stable identity for reporting and baselining.
//
// This package is a leaf dependency: it imports only the standard library.
package violation

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// CodeMissingHeader is reported when a REQUIRED header is absent.
	CodeMissingHeader Code = "missing-header"
	// CodeEmptyHeader is reported when a REQUIRED header is declared blank.
	CodeEmptyHeader Code = "empty-header"
	// CodeForbiddenHeader is reported when a FORBIDDEN header is declared.
	CodeForbiddenHeader Code = "forbidden-header"
	// CodeDeprecatedHeader is reported when a retired header name is used.
	CodeDeprecatedHeader Code = "deprecated-header"
	// CodeHeaderMismatch is reported when a header shared by both files disagrees.
	CodeHeaderMismatch Code = "header-mismatch"
	// CodeVersionMismatch is reported when an artifact version differs from the canonical version.
	CodeVersionMismatch Code = "version-mismatch"
	// CodeUnexpectedVersionKey is reported when composer.json pins a version.
	CodeUnexpectedVersionKey Code = "unexpected-version-key"
	// CodeMissingLowResAsset is reported when a high-resolution banner has no low-resolution twin.
	CodeMissingLowResAsset Code = "missing-low-res-asset"
)

// ErrInvalidCode is the sentinel error wrapped by InvalidCodeError.
var ErrInvalidCode = errors.New("invalid violation code")

type (
	// Code names a violation rule. The zero value is invalid.
	Code string

	// Violation is a single rule failure. Implementations are error types so
	// checkers can return them alongside ordinary errors; use errors.As to tell
	// them apart.
	Violation interface {
		error
		// Code returns the rule identifier.
		Code() Code
		// Subject returns what broke the rule, e.g. "readme:Tested" or "package.json:version".
		Subject() string
	}

	// InvalidCodeError is returned when a Code is not one of the known rules.
	InvalidCodeError struct {
		Value Code
	}
)

var allCodes = []Code{
	CodeMissingHeader,
	CodeEmptyHeader,
	CodeForbiddenHeader,
	CodeDeprecatedHeader,
	CodeHeaderMismatch,
	CodeVersionMismatch,
	CodeUnexpectedVersionKey,
	CodeMissingLowResAsset,
}

// Codes returns every known violation code in documentation order.
func Codes() []Code {
	return slices.Clone(allCodes)
}

// String returns the string representation of the Code.
func (c Code) String() string { return string(c) }

// IsValid returns whether the Code is one of the known rules.
func (c Code) IsValid() (bool, []error) {
	if slices.Contains(allCodes, c) {
		return true, nil
	}
	return false, []error{&InvalidCodeError{Value: c}}
}

// Error implements the error interface.
func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid violation code %q (valid: %v)", e.Value, allCodes)
}

// Unwrap returns ErrInvalidCode for errors.Is() compatibility.
func (e *InvalidCodeError) Unwrap() error { return ErrInvalidCode }

// Key returns the stable identity of v as "<code>|<subject>".
func Key(v Violation) string {
	return string(v.Code()) + "|" + v.Subject()
}

// Collect splits errs into violations and other errors, preserving order.
func Collect(errs []error) (violations []Violation, others []error) {
	for _, err := range errs {
		var v Violation
		if errors.As(err, &v) {
			violations = append(violations, v)
			continue
		}
		others = append(others, err)
	}
	return violations, others
}
