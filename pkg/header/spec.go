// SPDX-License-Identifier: MPL-2.0

package header

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// stableTagPairName labels the synthetic Version/Stable tag pairing.
const stableTagPairName = "Stable tag matches version"

// ErrDuplicateHeader is returned when a Spec lists the same header twice.
var ErrDuplicateHeader = errors.New("duplicate header in spec")

type (
	// Entry is one row of a Spec.
	Entry struct {
		Name  string
		Level Level
	}

	// Spec is an ordered, immutable mapping of header name to requirement level
	// for one file kind. Build it with NewSpec.
	Spec struct {
		kind    FileKind
		entries []Entry
		index   map[string]int
	}

	// Alias maps a retired header name to the name that replaced it.
	Alias struct {
		Deprecated  string
		Replacement string
	}

	// CommonPair names a header that is compared across files. Plugin and
	// Readme are equal except for the synthetic Version/Stable tag pair.
	CommonPair struct {
		Plugin string
		Readme string
	}

	// Rules is the complete rule set for one validation run.
	Rules struct {
		Readme     Spec
		Plugin     Spec
		Deprecated []Alias
		Common     []CommonPair
	}
)

// NewSpec builds a Spec from entries, rejecting invalid levels and duplicate names.
func NewSpec(kind FileKind, entries ...Entry) (Spec, error) {
	if ok, errs := kind.IsValid(); !ok {
		return Spec{}, errs[0]
	}

	s := Spec{
		kind:    kind,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if ok, errs := e.Level.IsValid(); !ok {
			return Spec{}, fmt.Errorf("%s header %q: %w", kind, e.Name, errs[0])
		}
		if _, dup := s.index[e.Name]; dup {
			return Spec{}, fmt.Errorf("%s header %q: %w", kind, e.Name, ErrDuplicateHeader)
		}
		s.index[e.Name] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Kind returns the file kind the Spec applies to.
func (s Spec) Kind() FileKind { return s.kind }

// Len returns the number of headers in the Spec.
func (s Spec) Len() int { return len(s.entries) }

// Entries returns a copy of the Spec rows in declaration order.
func (s Spec) Entries() []Entry { return slices.Clone(s.entries) }

// Level returns the requirement level of name and whether the Spec lists it.
func (s Spec) Level(name string) (Level, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.entries[i].Level, true
}

// Names returns every header name in declaration order.
func (s Spec) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// WithLevel returns the header names declared at level, in declaration order.
func (s Spec) WithLevel(level Level) []string {
	var names []string
	for _, e := range s.entries {
		if e.Level == level {
			names = append(names, e.Name)
		}
	}
	return names
}

// Override returns a new Spec with the given levels applied. Existing headers keep
// their position; headers the Spec did not list are appended in name order.
func (s Spec) Override(levels map[string]Level) (Spec, error) {
	if len(levels) == 0 {
		return s, nil
	}

	entries := s.Entries()
	for i, e := range entries {
		if l, ok := levels[e.Name]; ok {
			entries[i].Level = l
		}
	}

	for _, name := range slices.Sorted(maps.Keys(levels)) {
		if _, ok := s.index[name]; !ok {
			entries = append(entries, Entry{Name: name, Level: levels[name]})
		}
	}

	return NewSpec(s.kind, entries...)
}

// Name returns a display name for the pair.
func (p CommonPair) Name() string {
	if p.Plugin != p.Readme {
		return stableTagPairName
	}
	return p.Plugin
}

// CommonPairs derives the cross-file comparison set: the synthetic
// Version/Stable tag pair first, then every header listed in both specs at any
// level, in readme declaration order.
func CommonPairs(readme, plugin Spec) []CommonPair {
	pairs := []CommonPair{{Plugin: "Version", Readme: "Stable tag"}}
	for _, name := range readme.Names() {
		if _, ok := plugin.Level(name); ok {
			pairs = append(pairs, CommonPair{Plugin: name, Readme: name})
		}
	}
	return pairs
}

// NewRules assembles a rule set and derives its common pairs.
func NewRules(readme, plugin Spec, deprecated []Alias) (Rules, error) {
	if readme.Kind() != FileReadme {
		return Rules{}, fmt.Errorf("readme spec has kind %q", readme.Kind())
	}
	if plugin.Kind() != FilePlugin {
		return Rules{}, fmt.Errorf("plugin spec has kind %q", plugin.Kind())
	}
	return Rules{
		Readme:     readme,
		Plugin:     plugin,
		Deprecated: slices.Clone(deprecated),
		Common:     CommonPairs(readme, plugin),
	}, nil
}

// Spec returns the spec for kind.
func (r Rules) Spec(kind FileKind) Spec {
	if kind == FilePlugin {
		return r.Plugin
	}
	return r.Readme
}

// RequestedNames returns every header name a parser must look for in a file of
// the given kind: the spec headers followed by the deprecated aliases.
func (r Rules) RequestedNames(kind FileKind) []string {
	names := r.Spec(kind).Names()
	for _, a := range r.Deprecated {
		if !slices.Contains(names, a.Deprecated) {
			names = append(names, a.Deprecated)
		}
	}
	return names
}

// WithOverrides returns a copy of r with per-kind level overrides applied and
// the common pairs re-derived.
func (r Rules) WithOverrides(readme, plugin map[string]Level) (Rules, error) {
	rs, err := r.Readme.Override(readme)
	if err != nil {
		return Rules{}, err
	}
	ps, err := r.Plugin.Override(plugin)
	if err != nil {
		return Rules{}, err
	}
	return NewRules(rs, ps, r.Deprecated)
}
