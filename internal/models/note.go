package models

import "time"

type Note struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        int
	Email     string
	Password  string
	CreatedAt time.Time
}
