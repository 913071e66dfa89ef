package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gratitude/internal/client"
)

func newTestServer(t *testing.T) (*httptest.Server, func() int) {
	t.Helper()
	r, conn, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, func() int { return userCount(t, conn) }
}

func TestAPISignupLoginNotesFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	c := client.New(ts.URL, "")
	require.NoError(t, c.SignUp("a@example.com", "longenough", "longenough"))

	sess, err := c.SignIn("a@example.com", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "a@example.com", sess.Email)

	me, err := c.Me()
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, me.UserID)

	require.NoError(t, c.CreateNote("older note"))
	require.NoError(t, c.CreateNote("newer note"))

	notes, err := c.ListNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "newer note", notes[0].Text)
	assert.Equal(t, "older note", notes[1].Text)

	require.NoError(t, c.DeleteNote(notes[0].ID))
	notes, err = c.ListNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "older note", notes[0].Text)

	require.NoError(t, c.SignOut())
}

func TestAPISignupShortPasswordNoUserCreated(t *testing.T) {
	ts, users := newTestServer(t)

	c := client.New(ts.URL, "")
	err := c.SignUp("a@example.com", "short", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Equal(t, 0, users())
}

func TestAPILoginFailureIsGeneric(t *testing.T) {
	ts, _ := newTestServer(t)

	c := client.New(ts.URL, "")
	require.NoError(t, c.SignUp("a@example.com", "longenough", "longenough"))

	_, unknownErr := c.SignIn("nobody@example.com", "whatever1")
	_, wrongErr := c.SignIn("a@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	// Same wording, no matter which part was wrong.
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, "Invalid email or password", unknownErr.Error())
}

func TestAPICreateNoteWhitespaceRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	c := client.New(ts.URL, "")
	require.NoError(t, c.SignUp("a@example.com", "longenough", "longenough"))
	_, err := c.SignIn("a@example.com", "longenough")
	require.NoError(t, err)

	err = c.CreateNote("   ")
	require.Error(t, err)

	notes, err := c.ListNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/notes")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/notes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestAPIRequestIDEchoed(t *testing.T) {
	ts, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/login", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}
