// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"net/http"
)

// Kind classifies why an action was rejected.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindBadRequest         Kind = "BAD_REQUEST"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindConflict           Kind = "CONFLICT"
)

// HTTPStatus maps a kind to the status code the API answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a rejected action. No state was changed when one is returned.
type Error struct {
	Kind    Kind
	Message string
	Missing []string // participant ids, set when reasons are outstanding
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrBadRequest         = &Error{Kind: KindBadRequest}
	ErrPreconditionFailed = &Error{Kind: KindPreconditionFailed}
	ErrConflict           = &Error{Kind: KindConflict}
)

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func preconditionFailed(format string, args ...any) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}
