package handlers

import (
	"database/sql"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gratitude/internal/auth"
	"gratitude/internal/config"
	"gratitude/internal/db"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*mux.Router, *sql.DB, *auth.JWTService) {
	t.Helper()
	// A file, not :memory:: the pool may open more than one connection and
	// each in-memory sqlite connection gets its own empty database.
	conn := db.InitDB(&config.Config{DBDriver: "sqlite3", DBPath: filepath.Join(t.TempDir(), "test.db")})
	t.Cleanup(func() { conn.Close() })
	jwtService := auth.NewJWTService(testSecret)
	return Router(conn, jwtService), conn, jwtService
}

func addUser(t *testing.T, conn *sql.DB, email, password string) int {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	res, err := conn.Exec("INSERT INTO users (email, password) VALUES (?, ?)", email, string(hash))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func userCount(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func formRequest(path string, form url.Values) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(t *testing.T, req *http.Request, jwtService *auth.JWTService, userID int) *http.Request {
	t.Helper()
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}
