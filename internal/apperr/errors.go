// Package apperr holds the sentinel errors shared across the room
// orchestrator. Handlers compare against these with errors.Is instead of
// matching on message text.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
