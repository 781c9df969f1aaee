// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// suggestions for fixing it. Issue holds the long-form Markdown guidance for
// every violation code and for failures of the run itself; 'wplint explain'
// renders it with glamour.
package issue
