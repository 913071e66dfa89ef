// Package sqlstore persists notes in the service database, scoped to one
// user. Every query filters on user_id; a caller never sees or deletes
// another user's rows.
package sqlstore

import (
	"database/sql"
	"strings"

	"gratitude/internal/models"
	"gratitude/internal/store"
)

type Store struct {
	db     *sql.DB
	userID int
}

// ForUser binds the store to the authenticated caller. Handlers construct
// one per request from the user id the auth middleware put in context.
func ForUser(db *sql.DB, userID int) *Store {
	return &Store{db: db, userID: userID}
}

func (s *Store) Create(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.ErrEmptyText
	}
	if s.userID == 0 {
		return store.ErrNotAuthenticated
	}

	_, err := s.db.Exec(
		"INSERT INTO notes (user_id, text, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		s.userID, text)
	return err
}

func (s *Store) List() ([]models.Note, error) {
	if s.userID == 0 {
		return nil, store.ErrNotAuthenticated
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, text, created_at
		FROM notes
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes one note by id. An id that does not exist or belongs to
// another user matches zero rows and is a no-op.
func (s *Store) Delete(id int) error {
	if s.userID == 0 {
		return store.ErrNotAuthenticated
	}
	_, err := s.db.Exec("DELETE FROM notes WHERE id=? AND user_id=?", id, s.userID)
	return err
}
