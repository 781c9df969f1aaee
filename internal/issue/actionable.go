// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// explainCommand is the CLI entry point that renders an Issue.
const explainCommand = "wplint explain"

type (
	// ActionableError is a failure of the run itself, as opposed to a metadata
	// finding. It says what wplint was doing and how to fix it; Issue links it
	// to the guidance 'wplint explain' renders.
	//
	// Build one with ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("read mandatory metadata file").
	//		WithResource(path).
	//		WithSuggestion("Check that the file exists and is readable").
	//		WithIssue(issue.MandatoryFileUnreadableId).
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load configuration".
		Operation string
		// Resource is the file or path involved (optional).
		Resource string
		// Suggestions are fixes shown under the message (optional).
		Suggestions []string
		// Cause is the underlying error (optional).
		Cause error
		// Issue is the registered guidance for this failure (optional).
		Issue Id
	}

	// ErrorContext accumulates the fields of an ActionableError.
	// BuildError snapshots the fields, so a context can be extended and built
	// again.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an ActionableError.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := make([]string, 0, 3)
	parts = append(parts, "failed to "+e.Operation)
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause so errors.Is can reach sentinel errors such as
// fs.ErrNotExist.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Guidance returns the Issue linked to the error, or nil.
func (e *ActionableError) Guidance() *Issue {
	return Get(e.Issue)
}

// ExplainCommand returns the command that renders the linked Issue, or ""
// when the error has none.
func (e *ActionableError) ExplainCommand() string {
	i := e.Guidance()
	if i == nil {
		return ""
	}
	return explainCommand + " " + i.Slug()
}

// Format renders the error with its suggestions as a bulleted list. In
// verbose mode the numbered cause chain follows.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return sb.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the file or path involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

// WithSuggestions appends several suggestions in order.
func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s...)
	return c
}

// WithIssue links the error to a registered Issue.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// BuildError returns the accumulated *ActionableError, or nil when no
// operation was set.
func (c *ErrorContext) BuildError() error {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// AsActionable finds the first ActionableError in err's chain.
func AsActionable(err error) (*ActionableError, bool) {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
