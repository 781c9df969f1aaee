// SPDX-License-Identifier: MPL-2.0

package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pwcc/wplint/internal/baseline"
	"github.com/pwcc/wplint/pkg/violation"
)

const (
	// StatusPass means the case found nothing wrong.
	StatusPass Status = "pass"
	// StatusFail means the case found at least one unsuppressed violation.
	StatusFail Status = "fail"
	// StatusSkip means the case inspects an optional artifact that does not exist.
	StatusSkip Status = "skip"
	// StatusError means the case could not be evaluated.
	StatusError Status = "error"
	// StatusSuppressed means every violation of the case is in the baseline.
	StatusSuppressed Status = "suppressed"

	// GroupReadme holds requirement cases of the readme.
	GroupReadme Group = "readme"
	// GroupPlugin holds requirement cases of the main plugin file.
	GroupPlugin Group = "plugin"
	// GroupDeprecated holds deprecated alias cases of both files.
	GroupDeprecated Group = "deprecated"
	// GroupCommon holds cross-file consistency cases.
	GroupCommon Group = "common"
	// GroupVersion holds version synchronization cases.
	GroupVersion Group = "version"
	// GroupAssets holds banner pairing cases.
	GroupAssets Group = "assets"
)

// ErrInvalidStatus is the sentinel error wrapped by InvalidStatusError.
var ErrInvalidStatus = errors.New("invalid verdict status")

type (
	// Status is the outcome of one case.
	Status string

	// Group is the family a case belongs to.
	Group string

	// InvalidStatusError is returned when a Status is not one of the known values.
	InvalidStatusError struct {
		Value Status
	}

	// Finding is one violation reported by a case.
	Finding struct {
		Code       violation.Code `json:"code" yaml:"code"`
		Subject    string         `json:"subject" yaml:"subject"`
		Message    string         `json:"message" yaml:"message"`
		Suppressed bool           `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
	}

	// Verdict is the named result of one case.
	Verdict struct {
		Check    string    `json:"check" yaml:"check"`
		Group    Group     `json:"group" yaml:"group"`
		Status   Status    `json:"status" yaml:"status"`
		Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
		Findings []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	}

	// Summary counts verdicts by status.
	Summary struct {
		Total      int `json:"total" yaml:"total"`
		Passed     int `json:"passed" yaml:"passed"`
		Failed     int `json:"failed" yaml:"failed"`
		Skipped    int `json:"skipped" yaml:"skipped"`
		Errored    int `json:"errored" yaml:"errored"`
		Suppressed int `json:"suppressed" yaml:"suppressed"`
	}

	// Report is the aggregate result of one validation run.
	Report struct {
		Dir              string    `json:"dir" yaml:"dir"`
		Readme           string    `json:"readme" yaml:"readme"`
		PluginFile       string    `json:"plugin_file" yaml:"plugin_file"`
		CanonicalVersion string    `json:"canonical_version,omitempty" yaml:"canonical_version,omitempty"`
		CanonicalOrigin  string    `json:"canonical_origin,omitempty" yaml:"canonical_origin,omitempty"`
		Verdicts         []Verdict `json:"verdicts" yaml:"verdicts"`
		Summary          Summary   `json:"summary" yaml:"summary"`
	}
)

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// IsValid returns whether the Status is one of the known values.
func (s Status) IsValid() (bool, []error) {
	switch s {
	case StatusPass, StatusFail, StatusSkip, StatusError, StatusSuppressed:
		return true, nil
	default:
		return false, []error{&InvalidStatusError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid verdict status %q", e.Value)
}

// Unwrap returns ErrInvalidStatus for errors.Is() compatibility.
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// String returns the string representation of the Group.
func (g Group) String() string { return string(g) }

// Groups returns every case group in report order.
func Groups() []Group {
	return []Group{GroupReadme, GroupPlugin, GroupDeprecated, GroupCommon, GroupVersion, GroupAssets}
}

// newVerdict classifies the errors returned by a case. Violations become
// findings; any other error turns the verdict into StatusError.
func newVerdict(c Case, skipped bool, errs []error) Verdict {
	v := Verdict{Check: c.Name, Group: c.Group, Status: StatusPass}
	violations, others := violation.Collect(errs)
	for _, vl := range violations {
		v.Findings = append(v.Findings, Finding{Code: vl.Code(), Subject: vl.Subject(), Message: vl.Error()})
	}

	switch {
	case len(others) > 0:
		v.Status = StatusError
		msgs := make([]string, len(others))
		for i, err := range others {
			msgs[i] = err.Error()
		}
		v.Message = strings.Join(msgs, "; ")
	case len(v.Findings) > 0:
		v.Status = StatusFail
	case skipped:
		v.Status = StatusSkip
		v.Message = "artifact not present"
	}
	return v
}

// suppress marks findings listed in b. A failing verdict whose findings are all
// suppressed becomes StatusSuppressed.
func (v *Verdict) suppress(b *baseline.Baseline) {
	if v.Status != StatusFail {
		return
	}
	remaining := 0
	for i := range v.Findings {
		f := &v.Findings[i]
		if b.Contains(f.Code, f.Subject, f.Message) {
			f.Suppressed = true
			continue
		}
		remaining++
	}
	if remaining == 0 {
		v.Status = StatusSuppressed
	}
}

// Failed reports whether any unsuppressed failure or error remains.
func (r *Report) Failed() bool {
	return r.Summary.Failed > 0 || r.Summary.Errored > 0
}

// Findings returns every violation of the run, suppressed or not, in verdict
// order, ready to be written as a baseline.
func (r *Report) Findings() []baseline.Finding {
	var out []baseline.Finding
	for _, v := range r.Verdicts {
		for _, f := range v.Findings {
			out = append(out, baseline.Finding{Code: f.Code, Subject: f.Subject, Message: f.Message})
		}
	}
	return out
}

// ByGroup returns the verdicts of g in case order.
func (r *Report) ByGroup(g Group) []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if v.Group == g {
			out = append(out, v)
		}
	}
	return out
}

func summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch v.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		case StatusError:
			s.Errored++
		case StatusSuppressed:
			s.Suppressed++
		}
	}
	return s
}
