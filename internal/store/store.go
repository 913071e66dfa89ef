// Package store defines the persistence contract shared by the local
// file-backed store, the per-user SQL store, and the remote API store.
package store

import (
	"errors"
	"fmt"

	"gratitude/internal/models"
)

// Store is the note lifecycle every front end works against.
//
// The meaning of the identifier passed to Delete differs per backend: the
// local store addresses notes by their zero-based position in the slice the
// last List returned (deleting shifts later positions down, so indexes must
// be recomputed from a fresh List before every use); the SQL and remote
// stores address notes by their durable server-assigned id.
type Store interface {
	Create(text string) error
	List() ([]models.Note, error)
	Delete(id int) error
}

// ErrNotAuthenticated is returned when an operation needs an identity and
// none is present.
var ErrNotAuthenticated = errors.New("not logged in")

// ValidationError reports input rejected before touching any backend.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ErrEmptyText rejects whitespace-only note text.
var ErrEmptyText = &ValidationError{Msg: "note text cannot be empty"}

// RemoteError wraps a failure from the hosted service so callers can tell
// "the backend said no" apart from local validation.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }
