package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"gratitude/internal/auth"
	"gratitude/internal/models"
	"gratitude/internal/store"
	"gratitude/internal/store/sqlstore"
)

// JSON API consumed by the gratitude CLI in remote mode. Same semantics as
// the HTML pages, bearer token instead of a cookie.

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm,omitempty"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

type noteRequest struct {
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func APISignupHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := auth.ValidateSignup(req.Email, req.Password, req.Confirm); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hashedPass, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error creating user")
			return
		}

		if _, err := db.Exec("INSERT INTO users (email, password) VALUES (?, ?)", req.Email, string(hashedPass)); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func APILoginHandler(db *sql.DB, jwtService *auth.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := auth.ValidateLogin(req.Email, req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		failLogin := func(cause error) {
			log.Println("Login failed:", cause)
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		}

		var user models.User
		row := db.QueryRow("SELECT id, password FROM users WHERE email=?", req.Email)
		if err := row.Scan(&user.ID, &user.Password); err != nil {
			failLogin(err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			failLogin(err)
			return
		}

		token, err := jwtService.GenerateToken(user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate token")
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{Token: token, UserID: user.ID, Email: req.Email})
	}
}

// APILogoutHandler exists so the client has an explicit sign-out call to
// make; tokens are stateless, forgetting the credential is the real logout.
func APILogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// APIMeHandler answers the client's startup session probe.
func APIMeHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())

		var email string
		if err := db.QueryRow("SELECT email FROM users WHERE id=?", userID).Scan(&email); err != nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "email": email})
	}
}

func APIListNotesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())

		notes, err := sqlstore.ForUser(db, userID).List()
		if err != nil {
			log.Println("List notes error:", err)
			writeError(w, http.StatusInternalServerError, "failed to load notes")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
	}
}

func APICreateNoteHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())

		var req noteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := sqlstore.ForUser(db, userID).Create(req.Text); err != nil {
			var verr *store.ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Msg)
				return
			}
			log.Println("Save note error:", err)
			writeError(w, http.StatusInternalServerError, "failed to save note")
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func APIDeleteNoteHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())

		noteID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid note id")
			return
		}

		if err := sqlstore.ForUser(db, userID).Delete(noteID); err != nil {
			log.Println("Delete note error:", err)
			writeError(w, http.StatusInternalServerError, "failed to delete note")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
