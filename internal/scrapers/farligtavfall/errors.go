package farligtavfall

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every error the scraper produces.
type Kind int

const (
	// KindFetch is a failed request, a non-2xx response or an unreadable body.
	KindFetch Kind = iota + 1
	// KindMarkupStructure is an expected element or attribute that is missing.
	KindMarkupStructure
	// KindSplit is a body text without a recognizable weekday.
	KindSplit
	// KindTimestampFormat is a time range that could not be turned into times.
	KindTimestampFormat
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindMarkupStructure:
		return "markup structure"
	case KindSplit:
		return "split"
	case KindTimestampFormat:
		return "timestamp format"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a single scraper failure.
type Error struct {
	Kind    Kind
	Message string
	// Detail is the offending input, a url or a piece of text.
	Detail string
	Err    error
}

func newError(kind Kind, message, detail string, err error) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail, Err: err}
}

// asError returns the *Error in err's chain, or wraps err as the given kind.
func asError(err error, kind Kind) *Error {
	var target *Error
	if errors.As(err, &target) {
		return target
	}
	return newError(kind, "unexpected error", "", err)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%q)", e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's tree is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok && e.Kind == kind {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if IsKind(inner, kind) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return IsKind(x.Unwrap(), kind)
	}
	return false
}

// PageError is the result of a page that had at least one bad fragment, it
// holds every fragment error of that page.
type PageError struct {
	Errors []*Error
}

func (e *PageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s) when parsing page", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *PageError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}
