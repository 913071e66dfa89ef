package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"gratitude/internal/auth"
	"gratitude/internal/middleware"
)

// Router wires every page and API route.
func Router(db *sql.DB, jwtService *auth.JWTService) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	r.HandleFunc("/register", RegisterHandler(db)).Methods("GET", "POST")
	r.HandleFunc("/login", LoginHandler(db, jwtService)).Methods("GET", "POST")
	r.HandleFunc("/logout", LogoutHandler()).Methods("GET")

	// Authenticated pages
	s := r.PathPrefix("/").Subrouter()
	s.Use(auth.JWTMiddleware(jwtService))

	s.HandleFunc("/dashboard", DashboardHandler(db)).Methods("GET")
	s.HandleFunc("/notes/new", NewNoteHandler(db)).Methods("POST")
	s.HandleFunc("/notes/delete/{id}", DeleteNoteHandler(db)).Methods("POST")

	// JSON API for the CLI client
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestID())
	api.HandleFunc("/signup", APISignupHandler(db)).Methods("POST")
	api.HandleFunc("/login", APILoginHandler(db, jwtService)).Methods("POST")

	authed := api.PathPrefix("/").Subrouter()
	authed.Use(auth.BearerMiddleware(jwtService))
	authed.HandleFunc("/logout", APILogoutHandler()).Methods("POST")
	authed.HandleFunc("/me", APIMeHandler(db)).Methods("GET")
	authed.HandleFunc("/notes", APIListNotesHandler(db)).Methods("GET")
	authed.HandleFunc("/notes", APICreateNoteHandler(db)).Methods("POST")
	authed.HandleFunc("/notes/{id}", APIDeleteNoteHandler(db)).Methods("DELETE")

	return r
}
