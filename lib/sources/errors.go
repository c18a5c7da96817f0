package sources

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork          = errors.New("network error")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode error")
	ErrMissingField     = errors.New("missing field")
)

// Error is the single failure a source reports for one FetchOffers call.
// Kind is one of the sentinels above, both Kind and Err match errors.Is.
type Error struct {
	Source string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewError(source string, kind error, err error) *Error {
	return &Error{Source: source, Kind: kind, Err: err}
}

func MissingField(source string, field string) *Error {
	return NewError(source, ErrMissingField, fmt.Errorf("%q is absent", field))
}

// Kind returns the error kind of err, or nil when err did not come from a
// source.
func Kind(err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return nil
}
