package sqlstore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gratitude/internal/config"
	"gratitude/internal/db"
	"gratitude/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	// A file, not :memory:: the pool may open more than one connection and
	// each in-memory sqlite connection gets its own empty database.
	conn := db.InitDB(&config.Config{DBDriver: "sqlite3", DBPath: filepath.Join(t.TempDir(), "test.db")})
	t.Cleanup(func() { conn.Close() })
	return conn
}

func addUser(t *testing.T, conn *sql.DB, email string) int {
	t.Helper()
	res, err := conn.Exec("INSERT INTO users (email, password) VALUES (?, ?)", email, "x")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func TestCreateAndList(t *testing.T) {
	conn := testDB(t)
	s := ForUser(conn, addUser(t, conn, "a@example.com"))

	require.NoError(t, s.Create("Grateful for coffee"))

	notes, err := s.List()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Grateful for coffee", notes[0].Text)
	assert.NotZero(t, notes[0].ID)
}

func TestCreateRejectsWhitespace(t *testing.T) {
	conn := testDB(t)
	s := ForUser(conn, addUser(t, conn, "a@example.com"))

	err := s.Create("   ")
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)

	notes, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNewestFirst(t *testing.T) {
	conn := testDB(t)
	s := ForUser(conn, addUser(t, conn, "a@example.com"))

	require.NoError(t, s.Create("oldest"))
	require.NoError(t, s.Create("newest"))

	notes, err := s.List()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "newest", notes[0].Text)
	assert.Equal(t, "oldest", notes[1].Text)
}

func TestOwnershipScoping(t *testing.T) {
	conn := testDB(t)
	alice := ForUser(conn, addUser(t, conn, "alice@example.com"))
	bob := ForUser(conn, addUser(t, conn, "bob@example.com"))

	require.NoError(t, alice.Create("alice's note"))

	notes, err := bob.List()
	require.NoError(t, err)
	assert.Empty(t, notes)

	aliceNotes, err := alice.List()
	require.NoError(t, err)
	require.Len(t, aliceNotes, 1)

	// Bob deleting Alice's id matches zero rows.
	require.NoError(t, bob.Delete(aliceNotes[0].ID))
	aliceNotes, err = alice.List()
	require.NoError(t, err)
	assert.Len(t, aliceNotes, 1)
}

func TestDelete(t *testing.T) {
	conn := testDB(t)
	s := ForUser(conn, addUser(t, conn, "a@example.com"))

	require.NoError(t, s.Create("doomed"))
	require.NoError(t, s.Create("survivor"))

	notes, err := s.List()
	require.NoError(t, err)
	require.Len(t, notes, 2)

	var doomedID int
	for _, n := range notes {
		if n.Text == "doomed" {
			doomedID = n.ID
		}
	}
	require.NoError(t, s.Delete(doomedID))

	notes, err = s.List()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "survivor", notes[0].Text)

	// Deleting the same id again is a no-op.
	require.NoError(t, s.Delete(doomedID))
}

func TestUnauthenticated(t *testing.T) {
	conn := testDB(t)
	s := ForUser(conn, 0)

	assert.ErrorIs(t, s.Create("anything"), store.ErrNotAuthenticated)
	_, err := s.List()
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
	assert.ErrorIs(t, s.Delete(1), store.ErrNotAuthenticated)
}
