// Package remotestore implements the note store contract over the hosted
// service's API, scoped server-side to the authenticated caller.
package remotestore

import (
	"strings"

	"gratitude/internal/client"
	"gratitude/internal/models"
	"gratitude/internal/store"
)

type Store struct {
	c *client.Client
}

func New(c *client.Client) *Store {
	return &Store{c: c}
}

func (s *Store) Create(text string) error {
	// Validated here too so an empty note never leaves the process.
	if strings.TrimSpace(text) == "" {
		return store.ErrEmptyText
	}
	if !s.c.Authenticated() {
		return store.ErrNotAuthenticated
	}
	if err := s.c.CreateNote(text); err != nil {
		return &store.RemoteError{Op: "create note", Err: err}
	}
	return nil
}

func (s *Store) List() ([]models.Note, error) {
	if !s.c.Authenticated() {
		return nil, store.ErrNotAuthenticated
	}
	notes, err := s.c.ListNotes()
	if err != nil {
		return nil, &store.RemoteError{Op: "list notes", Err: err}
	}
	return notes, nil
}

func (s *Store) Delete(id int) error {
	if !s.c.Authenticated() {
		return store.ErrNotAuthenticated
	}
	if err := s.c.DeleteNote(id); err != nil {
		return &store.RemoteError{Op: "delete note", Err: err}
	}
	return nil
}
