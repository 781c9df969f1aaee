// SPDX-License-Identifier: MPL-2.0

// Package baseline reads and writes the TOML file of accepted findings.
//
// Findings present in the baseline are suppressed during validation, so a
// project adopting wplint can record its current state and only fail on new
// regressions. Each TOML table is a violation code; entries are keyed by the
// finding subject and keep the message for readability. Header and version
// mismatches are keyed by the message instead, since only it records the
// compared values:
//
//	[forbidden-header]
//	entries = [
//	    { subject = "readme:Requires PHP", message = "..." },
//	]
package baseline

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pwcc/wplint/pkg/violation"

	"github.com/BurntSushi/toml"
)

type (
	// Finding is a single accepted finding.
	Finding struct {
		Code    violation.Code `toml:"-"`
		Subject string         `toml:"subject"`
		Message string         `toml:"message"`
	}

	// Category holds the accepted findings for one violation code.
	Category struct {
		Entries []Finding `toml:"entries"`
	}

	// Baseline is a parsed baseline file with lookup indexes.
	// A nil *Baseline matches nothing.
	Baseline struct {
		categories map[string]Category

		// bySubject is keyed by code, then subject.
		bySubject map[violation.Code]map[string]bool
		// byMessage is the fallback for entries without a subject and the
		// only index for mismatch codes.
		byMessage map[violation.Code]map[string]bool
	}
)

// Load reads and parses a baseline TOML file.
//
// Returns an empty baseline (matches nothing) if path is empty or the file
// does not exist. Tables whose name is not a known violation code are rejected.
func Load(path string) (*Baseline, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	return Parse(data)
}

// Parse decodes baseline TOML from data.
func Parse(data []byte) (*Baseline, error) {
	var categories map[string]Category
	if err := toml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parsing baseline TOML: %w", err)
	}
	for name := range categories {
		if ok, errs := violation.Code(name).IsValid(); !ok {
			return nil, fmt.Errorf("parsing baseline TOML: %w", errs[0])
		}
	}

	b := &Baseline{categories: categories}
	b.buildLookup()
	return b, nil
}

// Empty returns a baseline that matches nothing.
func Empty() *Baseline {
	b := &Baseline{}
	b.buildLookup()
	return b
}

// Contains reports whether a finding is present in the baseline. Matching
// prefers the subject and falls back to the message. Mismatch codes name only
// the field in their subject, so they match on the message, which carries
// both compared values: an accepted drift does not cover a later, different one.
func (b *Baseline) Contains(code violation.Code, subject, message string) bool {
	if b == nil {
		return false
	}
	if matchesOnMessage(code) {
		return message != "" && b.byMessage[code][message]
	}
	if subject != "" && b.bySubject[code][subject] {
		return true
	}
	return message != "" && b.byMessage[code][message]
}

func matchesOnMessage(code violation.Code) bool {
	return code == violation.CodeHeaderMismatch || code == violation.CodeVersionMismatch
}

// Count returns the number of unique entries across all codes.
func (b *Baseline) Count() int {
	if b == nil {
		return 0
	}
	total := 0
	for _, cat := range b.categories {
		seen := make(map[string]bool, len(cat.Entries))
		for _, e := range cat.Entries {
			switch {
			case e.Subject != "":
				seen["subject:"+e.Subject] = true
			case e.Message != "":
				seen["msg:"+e.Message] = true
			}
		}
		total += len(seen)
	}
	return total
}

func (b *Baseline) buildLookup() {
	b.bySubject = make(map[violation.Code]map[string]bool, len(b.categories))
	b.byMessage = make(map[violation.Code]map[string]bool, len(b.categories))

	for name, cat := range b.categories {
		code := violation.Code(name)
		subjects := make(map[string]bool, len(cat.Entries))
		messages := make(map[string]bool, len(cat.Entries))
		for _, e := range cat.Entries {
			if e.Subject != "" {
				subjects[e.Subject] = true
			}
			if e.Message != "" {
				messages[e.Message] = true
			}
		}
		b.bySubject[code] = subjects
		b.byMessage[code] = messages
	}
}

// Write writes a baseline TOML file from findings. Tables follow the
// violation code registry order; entries are deduplicated by subject and
// sorted for stable diffs. Codes without findings are omitted.
func Write(path string, findings []Finding) error {
	return os.WriteFile(path, []byte(Render(findings, time.Now())), 0o644)
}

// Render returns the TOML text Write would produce at time now.
func Render(findings []Finding, now time.Time) string {
	byCode := make(map[violation.Code][]Finding)
	for _, f := range findings {
		byCode[f.Code] = append(byCode[f.Code], f)
	}

	var sb strings.Builder
	sb.WriteString("# wplint baseline: accepted plugin metadata findings\n")
	fmt.Fprintf(&sb, "# Generated: %s\n", now.UTC().Format("2006-01-02"))
	sb.WriteString("# Regenerate: wplint baseline write\n")

	total := 0
	sections := make([][]Finding, 0, len(violation.Codes()))
	for _, code := range violation.Codes() {
		entries := normalize(byCode[code])
		sections = append(sections, entries)
		total += len(entries)
	}
	fmt.Fprintf(&sb, "# Total: %d findings\n", total)

	for i, code := range violation.Codes() {
		entries := sections[i]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n[%s]\n", code)
		sb.WriteString("entries = [\n")
		for _, e := range entries {
			fmt.Fprintf(&sb, "    { subject = %s, message = %s },\n", quote(e.Subject), quote(e.Message))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// normalize drops rows without a subject, deduplicates by subject, and sorts.
func normalize(in []Finding) []Finding {
	bySubject := make(map[string]Finding, len(in))
	for _, f := range in {
		if f.Subject == "" {
			continue
		}
		bySubject[f.Subject] = f
	}

	out := make([]Finding, 0, len(bySubject))
	for _, f := range bySubject {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Finding) int { return strings.Compare(a.Subject, b.Subject) })
	return out
}

// quote produces a TOML-compatible double-quoted string with proper escaping.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
