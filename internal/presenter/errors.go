package presenter

import (
	"errors"
	"fmt"
)

// Kind classifies why a summary could not be shown. Users see the same
// warning for every kind.
type Kind int

const (
	KindInvalidURL Kind = iota + 1
	KindFetch
	KindExtract
	KindBackend
	KindEmptyResult
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindFetch:
		return "fetch_failure"
	case KindExtract:
		return "extract_failure"
	case KindBackend:
		return "backend_failure"
	case KindEmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (url = %s)", e.Kind, e.URL)
	}

	return fmt.Sprintf("%s (url = %s): %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
