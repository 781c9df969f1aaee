// SPDX-License-Identifier: MPL-2.0

package header

import (
	"errors"
	"fmt"

	"github.com/pwcc/wplint/pkg/violation"
)

var (
	// ErrMissingHeader is the sentinel error wrapped by MissingHeaderError.
	ErrMissingHeader = errors.New("missing header")
	// ErrEmptyHeader is the sentinel error wrapped by EmptyHeaderError.
	ErrEmptyHeader = errors.New("empty header")
	// ErrForbiddenHeader is the sentinel error wrapped by ForbiddenHeaderError.
	ErrForbiddenHeader = errors.New("forbidden header present")
	// ErrDeprecatedHeader is the sentinel error wrapped by DeprecatedHeaderError.
	ErrDeprecatedHeader = errors.New("deprecated header used")
	// ErrHeaderMismatch is the sentinel error wrapped by HeaderMismatchError.
	ErrHeaderMismatch = errors.New("header mismatch")
)

type (
	// MissingHeaderError reports a required header that is not declared.
	MissingHeaderError struct {
		File   FileKind
		Header string
	}

	// EmptyHeaderError reports a required header declared with a blank value.
	EmptyHeaderError struct {
		File   FileKind
		Header string
	}

	// ForbiddenHeaderError reports a header that must not appear in File.
	ForbiddenHeaderError struct {
		File   FileKind
		Header string
		Value  string
	}

	// DeprecatedHeaderError reports use of a retired header name.
	DeprecatedHeaderError struct {
		File        FileKind
		Deprecated  string
		Replacement string
	}

	// HeaderMismatchError reports a header whose value differs between the files.
	HeaderMismatchError struct {
		Pair        CommonPair
		PluginValue string
		ReadmeValue string
	}
)

func subject(file FileKind, name string) string { return string(file) + ":" + name }

// Error implements the error interface.
func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("the %s file header '%s' is missing", e.File, e.Header)
}

// Unwrap returns ErrMissingHeader for errors.Is() compatibility.
func (e *MissingHeaderError) Unwrap() error { return ErrMissingHeader }

// Code implements violation.Violation.
func (e *MissingHeaderError) Code() violation.Code { return violation.CodeMissingHeader }

// Subject implements violation.Violation.
func (e *MissingHeaderError) Subject() string { return subject(e.File, e.Header) }

// Error implements the error interface.
func (e *EmptyHeaderError) Error() string {
	return fmt.Sprintf("the %s file header '%s' is empty", e.File, e.Header)
}

// Unwrap returns ErrEmptyHeader for errors.Is() compatibility.
func (e *EmptyHeaderError) Unwrap() error { return ErrEmptyHeader }

// Code implements violation.Violation.
func (e *EmptyHeaderError) Code() violation.Code { return violation.CodeEmptyHeader }

// Subject implements violation.Violation.
func (e *EmptyHeaderError) Subject() string { return subject(e.File, e.Header) }

// Error implements the error interface.
func (e *ForbiddenHeaderError) Error() string {
	return fmt.Sprintf("the %s file header '%s' is forbidden", e.File, e.Header)
}

// Unwrap returns ErrForbiddenHeader for errors.Is() compatibility.
func (e *ForbiddenHeaderError) Unwrap() error { return ErrForbiddenHeader }

// Code implements violation.Violation.
func (e *ForbiddenHeaderError) Code() violation.Code { return violation.CodeForbiddenHeader }

// Subject implements violation.Violation.
func (e *ForbiddenHeaderError) Subject() string { return subject(e.File, e.Header) }

// Error implements the error interface.
func (e *DeprecatedHeaderError) Error() string {
	return fmt.Sprintf("the %s file header '%s' is deprecated; use '%s' instead", e.File, e.Deprecated, e.Replacement)
}

// Unwrap returns ErrDeprecatedHeader for errors.Is() compatibility.
func (e *DeprecatedHeaderError) Unwrap() error { return ErrDeprecatedHeader }

// Code implements violation.Violation.
func (e *DeprecatedHeaderError) Code() violation.Code { return violation.CodeDeprecatedHeader }

// Subject implements violation.Violation.
func (e *DeprecatedHeaderError) Subject() string { return subject(e.File, e.Deprecated) }

// Error implements the error interface.
func (e *HeaderMismatchError) Error() string {
	if e.Pair.Plugin != e.Pair.Readme {
		return fmt.Sprintf("the plugin header '%s' (%q) does not match the readme header '%s' (%q)",
			e.Pair.Plugin, e.PluginValue, e.Pair.Readme, e.ReadmeValue)
	}
	return fmt.Sprintf("the header '%s' does not match between the readme (%q) and plugin file (%q)",
		e.Pair.Plugin, e.ReadmeValue, e.PluginValue)
}

// Unwrap returns ErrHeaderMismatch for errors.Is() compatibility.
func (e *HeaderMismatchError) Unwrap() error { return ErrHeaderMismatch }

// Code implements violation.Violation.
func (e *HeaderMismatchError) Code() violation.Code { return violation.CodeHeaderMismatch }

// Subject implements violation.Violation.
func (e *HeaderMismatchError) Subject() string {
	if e.Pair.Plugin != e.Pair.Readme {
		return e.Pair.Plugin + "=" + e.Pair.Readme
	}
	return e.Pair.Plugin
}
