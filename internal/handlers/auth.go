package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gratitude/internal/auth"
	"gratitude/internal/models"
)

func RegisterHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl := pageTemplate("register.html")

		if r.Method == http.MethodGet {
			renderPage(w, tmpl, map[string]interface{}{})
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")
		confirm := r.FormValue("confirm")

		// Field rules fail here, before any database work.
		if err := auth.ValidateSignup(email, password, confirm); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			renderPage(w, tmpl, map[string]interface{}{
				"Error": err.Error(),
				"Email": email,
			})
			return
		}

		hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Error creating user", http.StatusInternalServerError)
			return
		}

		_, err = db.Exec("INSERT INTO users (email, password) VALUES (?, ?)", email, string(hashedPass))
		if err != nil {
			// Backend refusals (duplicate email and the like) are shown as-is.
			w.WriteHeader(http.StatusBadRequest)
			renderPage(w, tmpl, map[string]interface{}{
				"Error": err.Error(),
				"Email": email,
			})
			return
		}

		// Signing up does not log the user in.
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
	}
}

func LoginHandler(db *sql.DB, jwtService *auth.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl := pageTemplate("login.html")

		if r.Method == http.MethodGet {
			renderPage(w, tmpl, map[string]interface{}{
				"Registered": r.URL.Query().Get("registered") == "1",
			})
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		if err := auth.ValidateLogin(email, password); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			renderPage(w, tmpl, map[string]interface{}{
				"Error": err.Error(),
				"Email": email,
			})
			return
		}

		// One message for every failure cause. The detail goes to the log,
		// never to the form.
		failLogin := func(cause error) {
			log.Println("Login failed:", cause)
			w.WriteHeader(http.StatusUnauthorized)
			renderPage(w, tmpl, map[string]interface{}{
				"Error": "Invalid email or password",
				"Email": email,
			})
		}

		var user models.User
		row := db.QueryRow("SELECT id, password FROM users WHERE email=?", email)
		if err := row.Scan(&user.ID, &user.Password); err != nil {
			failLogin(err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			failLogin(err)
			return
		}

		token, err := jwtService.GenerateToken(user.ID)
		if err != nil {
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    token,
			HttpOnly: true,
			Path:     "/",
			Expires:  time.Now().Add(72 * time.Hour),
		})

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    "",
			HttpOnly: true,
			Path:     "/",
			MaxAge:   -1,
		})

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
