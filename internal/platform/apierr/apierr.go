package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Mapping binds a sentinel error to the status and code it surfaces as.
type Mapping struct {
	Target error
	Status int
	Code   string
}

// Resolve returns the first mapping err matches, or a generic 500.
// An *Error already in the chain wins over the table.
func Resolve(err error, table []Mapping) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, m := range table {
		if errors.Is(err, m.Target) {
			return New(m.Status, m.Code, err)
		}
	}
	return New(http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
}
