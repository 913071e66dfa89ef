// Package client talks to the hosted gratitude service's JSON API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gratitude/internal/models"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Authenticated() bool { return c.token != "" }

// apiError is the {"error": "..."} body every failing endpoint returns.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) SignUp(email, password, confirm string) error {
	return c.do(http.MethodPost, "/api/signup", map[string]string{
		"email":    email,
		"password": password,
		"confirm":  confirm,
	}, nil)
}

type Session struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

func (c *Client) SignIn(email, password string) (*Session, error) {
	var sess Session
	err := c.do(http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &sess)
	if err != nil {
		return nil, err
	}
	c.token = sess.Token
	return &sess, nil
}

func (c *Client) SignOut() error {
	err := c.do(http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	return err
}

// Me probes whether the saved token still names a live session.
func (c *Client) Me() (*Session, error) {
	var out struct {
		UserID int    `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := c.do(http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &Session{Token: c.token, UserID: out.UserID, Email: out.Email}, nil
}

func (c *Client) ListNotes() ([]models.Note, error) {
	var out struct {
		Notes []models.Note `json:"notes"`
	}
	if err := c.do(http.MethodGet, "/api/notes", nil, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

func (c *Client) CreateNote(text string) error {
	return c.do(http.MethodPost, "/api/notes", map[string]string{"text": text}, nil)
}

func (c *Client) DeleteNote(id int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil, nil)
}
