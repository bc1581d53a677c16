package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrBadRequest   = errors.New("bad request")  // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
)

// Error is a domain failure with a client-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) error { return newError(ErrBadRequest, format, args...) }

func notFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

func unauthorized(format string, args ...any) error { return newError(ErrUnauthorized, format, args...) }

// notFoundOr maps gorm's missing-row error to a NotFound and wraps anything else.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
