package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gratitude/internal/store/sqlstore"
)

func TestDashboardRedirectsWithoutSession(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestDashboardEmptyPlaceholder(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	userID := addUser(t, conn, "a@example.com", "correct-password")

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No gratitude notes yet. Start writing!")
	// No notes, no delete triggers.
	assert.NotContains(t, rec.Body.String(), "/notes/delete/")
}

func TestDashboardEscapesNoteText(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	userID := addUser(t, conn, "a@example.com", "correct-password")
	require.NoError(t, sqlstore.ForUser(conn, userID).Create("<script>alert(1)</script>"))

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestDashboardListsNewestFirst(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	userID := addUser(t, conn, "a@example.com", "correct-password")
	st := sqlstore.ForUser(conn, userID)
	require.NoError(t, st.Create("older note"))
	require.NoError(t, st.Create("newer note"))

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))

	body := rec.Body.String()
	newerAt := indexOf(t, body, "newer note")
	olderAt := indexOf(t, body, "older note")
	assert.Less(t, newerAt, olderAt)
}

func TestNewNoteThenDelete(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	userID := addUser(t, conn, "a@example.com", "correct-password")

	rec := httptest.NewRecorder()
	req := formRequest("/notes/new", url.Values{"text": {"Grateful for coffee"}})
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	notes, err := sqlstore.ForUser(conn, userID).List()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Grateful for coffee", notes[0].Text)

	rec = httptest.NewRecorder()
	req = formRequest(fmt.Sprintf("/notes/delete/%d", notes[0].ID), url.Values{})
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	notes, err = sqlstore.ForUser(conn, userID).List()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNewNoteWhitespaceRejected(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	userID := addUser(t, conn, "a@example.com", "correct-password")

	rec := httptest.NewRecorder()
	req := formRequest("/notes/new", url.Values{"text": {"   "}})
	r.ServeHTTP(rec, withSession(t, req, jwtService, userID))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=")

	notes, err := sqlstore.ForUser(conn, userID).List()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestDeleteOtherUsersNoteIsNoop(t *testing.T) {
	r, conn, jwtService := newTestRouter(t)
	alice := addUser(t, conn, "alice@example.com", "correct-password")
	bob := addUser(t, conn, "bob@example.com", "correct-password")
	require.NoError(t, sqlstore.ForUser(conn, alice).Create("alice's note"))

	notes, err := sqlstore.ForUser(conn, alice).List()
	require.NoError(t, err)
	require.Len(t, notes, 1)

	rec := httptest.NewRecorder()
	req := formRequest(fmt.Sprintf("/notes/delete/%d", notes[0].ID), url.Values{})
	r.ServeHTTP(rec, withSession(t, req, jwtService, bob))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	notes, err = sqlstore.ForUser(conn, alice).List()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected body to contain %q", needle)
	return idx
}
