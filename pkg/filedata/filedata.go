// SPDX-License-Identifier: MPL-2.0

// Package filedata extracts metadata headers from the leading block of a file.
//
// WordPress reads plugin and readme headers from the first 8 KiB of a file as
// "Name: value" lines, optionally prefixed by comment decoration (" * ", "# ",
// "// ") or a "php" prefix. The prefix follows WordPress, where "<?php" is
// read as a regular expression: the "<" is optional and no "?" is matched, so
// a full "<?php" opening tag on the header line hides the header. Header
// names match case-insensitively and the first occurrence wins. A trailing
// comment terminator ("*/") or closing PHP tag ("?>") is stripped from the
// value.
package filedata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// MaxHeaderBytes is how much of a file is scanned for headers.
const MaxHeaderBytes = 8 * 1024

var commentCloser = regexp.MustCompile(`\s*(?:\*/|\?>).*`)

// Parse reads path and returns the declared value of every requested header that
// appears in the file's leading block. Headers not found are absent from the
// result; headers declared with an empty value are present with "".
func Parse(path string, names []string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return ParseReader(f, names)
}

// ParseReader is Parse over an arbitrary reader.
func ParseReader(r io.Reader, names []string) (map[string]string, error) {
	buf := make([]byte, MaxHeaderBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read header block: %w", err)
	}
	return ParseBytes(buf[:n], names), nil
}

// ParseBytes extracts headers from an in-memory block. Only the first
// MaxHeaderBytes bytes are considered.
func ParseBytes(data []byte, names []string) map[string]string {
	if len(data) > MaxHeaderBytes {
		data = data[:MaxHeaderBytes]
	}
	block := string(bytes.ReplaceAll(data, []byte("\r"), []byte("\n")))

	out := make(map[string]string, len(names))
	for _, name := range names {
		m := headerPattern(name).FindStringSubmatch(block)
		if m == nil {
			continue
		}
		out[name] = cleanValue(m[1])
	}
	return out
}

func headerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^(?:[ \t]*<?php)?[ \t/*#@]*` + regexp.QuoteMeta(name) + `:(.*)$`)
}

func cleanValue(raw string) string {
	return strings.TrimSpace(commentCloser.ReplaceAllString(raw, ""))
}
