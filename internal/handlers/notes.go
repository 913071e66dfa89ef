package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"gratitude/internal/auth"
	"gratitude/internal/store"
	"gratitude/internal/store/sqlstore"
)

// DashboardHandler rebuilds the whole note list from the store on every
// request; nothing is cached between renders.
func DashboardHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tmpl := pageTemplate("dashboard.html")

		notes, err := sqlstore.ForUser(db, userID).List()
		if err != nil {
			log.Println("List notes error:", err)
			renderPage(w, tmpl, map[string]interface{}{
				"LoadError": true,
				"Error":     r.URL.Query().Get("error"),
			})
			return
		}

		renderPage(w, tmpl, map[string]interface{}{
			"Notes": notes,
			"Error": r.URL.Query().Get("error"),
		})
	}
}

func NewNoteHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		err := sqlstore.ForUser(db, userID).Create(r.FormValue("text"))
		if err != nil {
			var verr *store.ValidationError
			if !errors.As(err, &verr) {
				log.Println("Save note error:", err)
			}
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func DeleteNoteHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		noteID, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if err := sqlstore.ForUser(db, userID).Delete(noteID); err != nil {
			log.Println("Delete note error:", err)
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}
