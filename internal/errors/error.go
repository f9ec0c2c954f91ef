// Package errors provides coded, categorized errors for the site.
//
// Every error code is registered with a message and detail so the CLI can
// print something useful and the HTTP layer can pick a status:
//
//	return errors.New("E201").WithDetail(path).Wrap(err)
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryContent  Category = "content"
	CategoryProtocol Category = "protocol"
	CategorySession  Category = "session"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// SiteError is a structured error with a code, category and fix hints.
type SiteError struct {
	Code       string
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	Wrapped    error
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SiteError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *SiteError with the same code.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation.
func (e *SiteError) WithDetail(d string) *SiteError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *SiteError) WithSuggestion(s string) *SiteError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *SiteError) Wrap(err error) *SiteError {
	e.Wrapped = err
	return e
}

// New creates a SiteError from a registered code. Unknown codes produce a
// generic error rather than panicking.
func New(code string) *SiteError {
	tmpl, ok := registry[code]
	if !ok {
		return &SiteError{Code: code, Message: "Unknown error"}
	}
	return &SiteError{
		Code:       code,
		Category:   tmpl.Category,
		Message:    tmpl.Message,
		Suggestion: tmpl.Suggestion,
	}
}

// Newf creates an uncoded SiteError with a formatted message.
func Newf(category Category, format string, args ...any) *SiteError {
	return &SiteError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError wraps err under code unless it already is a SiteError.
func FromError(err error, code string) *SiteError {
	if err == nil {
		return nil
	}
	var se *SiteError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &SiteError{Code: code})
}

// Format renders the error on several lines for terminal output.
func (e *SiteError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nERROR [%s]", e.Category)
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	fmt.Fprintf(&b, "\n  %s\n", e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, "  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  cause: %v\n", e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  hint: %s\n", e.Suggestion)
	}
	return b.String()
}

// PrintError prints err to stderr, using Format for SiteErrors.
func PrintError(err error) {
	var se *SiteError
	if stderrors.As(err, &se) {
		fmt.Fprint(os.Stderr, se.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\nERROR: %s\n\n", err)
}
