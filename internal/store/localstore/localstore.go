// Package localstore keeps notes as a JSON array in a single file.
// Whole file read on List, whole file rewrite on every mutation.
// No locking; fine for a local single-user CLI.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gratitude/internal/models"
	"gratitude/internal/store"
)

// record is the on-disk shape: {text, date}.
type record struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Create prepends a note, so the stored order is already newest-first.
func (s *Store) Create(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.ErrEmptyText
	}

	recs, err := s.load()
	if err != nil {
		return err
	}
	recs = append([]record{{Text: text, Date: time.Now()}}, recs...)
	return s.save(recs)
}

// List returns all notes newest-first. The returned Note IDs are positions
// in this listing; they are only valid until the next mutation.
func (s *Store) List() ([]models.Note, error) {
	recs, err := s.load()
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(recs))
	for i, r := range recs {
		notes = append(notes, models.Note{ID: i, Text: r.Text, CreatedAt: r.Date})
	}
	return notes, nil
}

// Delete removes the note at the given zero-based position. Positions after
// it shift down by one. Out-of-range is a no-op.
func (s *Store) Delete(index int) error {
	recs, err := s.load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(recs) {
		return nil
	}
	recs = append(recs[:index], recs[index+1:]...)
	return s.save(recs)
}

func (s *Store) load() ([]record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []record{}, nil
		}
		return nil, fmt.Errorf("read notes: %w", err)
	}
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("parse notes: %w", err)
	}
	return recs, nil
}

func (s *Store) save(recs []record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}
