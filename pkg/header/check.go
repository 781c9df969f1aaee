// SPDX-License-Identifier: MPL-2.0

package header

import "strings"

// Extracted holds the header values declared in one file. Build it with
// NewExtracted so that empty declarations are dropped.
type Extracted map[string]string

// NewExtracted copies raw parser output, dropping entries with empty values.
func NewExtracted(raw map[string]string) Extracted {
	out := make(Extracted, len(raw))
	for name, value := range raw {
		if value == "" {
			continue
		}
		out[name] = value
	}
	return out
}

// Value returns the declared value of name and whether it is declared non-empty.
func (h Extracted) Value(name string) (string, bool) {
	v, ok := h[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// CheckRequiredHeader fails when name is absent or blank in h.
func CheckRequiredHeader(file FileKind, name string, h Extracted) error {
	v, ok := h[name]
	if !ok {
		return &MissingHeaderError{File: file, Header: name}
	}
	if strings.TrimSpace(v) == "" {
		return &EmptyHeaderError{File: file, Header: name}
	}
	return nil
}

// CheckRequired checks every required header of spec.
func CheckRequired(spec Spec, h Extracted) []error {
	var errs []error
	for _, name := range spec.WithLevel(LevelRequired) {
		if err := CheckRequiredHeader(spec.Kind(), name, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckForbiddenHeader fails when name is present in h, whatever its value.
func CheckForbiddenHeader(file FileKind, name string, h Extracted) error {
	if v, ok := h[name]; ok {
		return &ForbiddenHeaderError{File: file, Header: name, Value: v}
	}
	return nil
}

// CheckForbidden checks every forbidden header of spec.
func CheckForbidden(spec Spec, h Extracted) []error {
	var errs []error
	for _, name := range spec.WithLevel(LevelForbidden) {
		if err := CheckForbiddenHeader(spec.Kind(), name, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckDeprecatedHeader fails when the deprecated name of alias is declared,
// regardless of whether the replacement is declared too.
func CheckDeprecatedHeader(file FileKind, alias Alias, h Extracted) error {
	if _, ok := h.Value(alias.Deprecated); ok {
		return &DeprecatedHeaderError{File: file, Deprecated: alias.Deprecated, Replacement: alias.Replacement}
	}
	return nil
}

// CheckNoDeprecated checks every alias against h.
func CheckNoDeprecated(file FileKind, aliases []Alias, h Extracted) []error {
	var errs []error
	for _, a := range aliases {
		if err := CheckDeprecatedHeader(file, a, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckCommonMatch compares the pair across files. It passes vacuously when
// either side is absent or empty; otherwise the values must be byte-identical.
func CheckCommonMatch(pair CommonPair, plugin, readme Extracted) error {
	pv, ok := plugin.Value(pair.Plugin)
	if !ok {
		return nil
	}
	rv, ok := readme.Value(pair.Readme)
	if !ok {
		return nil
	}
	if pv != rv {
		return &HeaderMismatchError{Pair: pair, PluginValue: pv, ReadmeValue: rv}
	}
	return nil
}

// CheckCommon checks every pair.
func CheckCommon(pairs []CommonPair, plugin, readme Extracted) []error {
	var errs []error
	for _, p := range pairs {
		if err := CheckCommonMatch(p, plugin, readme); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
