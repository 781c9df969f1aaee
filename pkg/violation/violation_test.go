// SPDX-License-Identifier: MPL-2.0

package violation

import (
	"errors"
	"fmt"
	"testing"
)

type fakeViolation struct {
	code    Code
	subject string
}

func (f *fakeViolation) Error() string   { return "fake: " + f.subject }
func (f *fakeViolation) Code() Code      { return f.code }
func (f *fakeViolation) Subject() string { return f.subject }

func TestCode_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range Codes() {
		t.Run(string(c), func(t *testing.T) {
			t.Parallel()
			if ok, errs := c.IsValid(); !ok || len(errs) != 0 {
				t.Errorf("Code(%q).IsValid() = %v, %v; want true, nil", c, ok, errs)
			}
		})
	}

	for _, c := range []Code{"", "missing", "MISSING-HEADER"} {
		t.Run("invalid "+string(c), func(t *testing.T) {
			t.Parallel()
			ok, errs := c.IsValid()
			if ok {
				t.Fatalf("Code(%q).IsValid() = true, want false", c)
			}
			if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidCode) {
				t.Errorf("expected ErrInvalidCode, got %v", errs)
			}
		})
	}
}

func TestCodes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	codes := Codes()
	codes[0] = "tampered"
	if Codes()[0] != CodeMissingHeader {
		t.Error("Codes() must return a copy")
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	v := &fakeViolation{code: CodeMissingHeader, subject: "readme:Contributors"}
	if got, want := Key(v), "missing-header|readme:Contributors"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	v1 := &fakeViolation{code: CodeForbiddenHeader, subject: "plugin:Tags"}
	plain := errors.New("read failed")
	v2 := fmt.Errorf("wrapped: %w", &fakeViolation{code: CodeEmptyHeader, subject: "plugin:Author"})

	violations, others := Collect([]error{v1, plain, v2})
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Subject() != "plugin:Tags" || violations[1].Subject() != "plugin:Author" {
		t.Errorf("unexpected violation order: %v", violations)
	}
	if len(others) != 1 || !errors.Is(others[0], plain) {
		t.Errorf("expected the plain error in others, got %v", others)
	}
}
