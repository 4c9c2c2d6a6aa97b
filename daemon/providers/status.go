package providers

import (
	"errors"
	"fmt"
)

// Status is the outcome reported to the NSS caller.
type Status int

const (
	// StatusSuccess means the lookup produced a value.
	StatusSuccess Status = iota
	// StatusNotFound means the entity legitimately does not exist.
	StatusNotFound
	// StatusTryAgain means the result could not be trusted; the caller
	// should retry or move on to the next source.
	StatusTryAgain
	// StatusUnavailable means the source is structurally broken and should
	// be treated as absent.
	StatusUnavailable
)

var statusStrings = map[Status]string{
	StatusSuccess:     "success",
	StatusNotFound:    "notfound",
	StatusTryAgain:    "tryagain",
	StatusUnavailable: "unavail",
}

func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for st, str := range statusStrings {
		if str == s {
			return st, nil
		}
	}
	return StatusUnavailable, fmt.Errorf("unknown status %q", s)
}

// Error is a lookup failure together with the status it maps to.
type Error struct {
	Status Status
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(format string, args ...interface{}) error {
	return &Error{Status: StatusNotFound, Err: fmt.Errorf(format, args...)}
}

func tryAgain(format string, args ...interface{}) error {
	return &Error{Status: StatusTryAgain, Err: fmt.Errorf(format, args...)}
}

func unavailable(format string, args ...interface{}) error {
	return &Error{Status: StatusUnavailable, Err: fmt.Errorf(format, args...)}
}

// StatusOf maps err to the status reported to the caller. A nil error is
// a success; errors that did not come from the lookup pipeline (which
// should not happen) are reported as TryAgain.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return StatusTryAgain
}
