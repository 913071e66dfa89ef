// Package tui is the interactive front end. It owns the session state for
// remote mode and redraws the note list from a fresh load after every
// mutation; nothing from a previous render is trusted.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"gratitude/internal/auth"
	"gratitude/internal/client"
	"gratitude/internal/config"
	"gratitude/internal/models"
	"gratitude/internal/store"
	"gratitude/internal/store/localstore"
	"gratitude/internal/store/remotestore"
)

// The one wording for any remote login failure.
const loginFailedMsg = "Invalid email or password"

type sessionState int

const (
	sessionUnknown sessionState = iota
	sessionAuthenticated
	sessionUnauthenticated
)

type view int

const (
	viewNotes view = iota
	viewLogin
	viewSignup
)

// Tagged events. Session transitions happen on these and nowhere else.
type (
	signedInMsg struct {
		email  string
		userID int
	}
	signedOutMsg struct{}

	notesLoadedMsg struct{ notes []models.Note }
	loadFailedMsg  struct{ err error }
	opDoneMsg      struct{}
	opFailedMsg    struct{ err error }
	signupDoneMsg  struct{}
	formFailedMsg  struct{ msg string }
)

type Model struct {
	remote bool
	store  store.Store
	client *client.Client
	cfg    *config.Config

	session sessionState
	email   string

	notes   []models.Note
	cursor  int
	loadErr string

	adding   bool
	input    textinput.Model
	inputErr string

	confirming bool // delete confirmation pending (remote mode)

	currentView view
	fields      []textinput.Model
	focusIdx    int
	formErr     string
	notice      string

	// busy disables the triggering control for the duration of one
	// operation; every result message clears it, success or not.
	busy   bool
	status string

	watcher *fsnotify.Watcher
}

func New(remote bool) (Model, error) {
	cfg := config.LoadConfig()

	m := Model{remote: remote, cfg: cfg, session: sessionUnknown}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "What are you grateful for today?"
	input.CharLimit = 500
	m.input = input

	if !remote {
		// The local file needs no identity.
		m.session = sessionAuthenticated
		m.store = localstore.New(cfg.NotesFile)
		w, err := newWatcher(cfg.NotesFile)
		if err != nil {
			return Model{}, fmt.Errorf("watch notes file: %w", err)
		}
		m.watcher = w
		return m, nil
	}

	ti, err := client.LoadToken()
	if err != nil {
		return Model{}, err
	}
	token := ""
	if ti != nil {
		token = ti.Token
	}
	m.client = client.New(cfg.ServerURL, token)
	m.store = remotestore.New(m.client)
	m.currentView = viewLogin
	m.fields = loginFields()
	return m, nil
}

func Run(remote bool) error {
	m, err := New(remote)
	if err != nil {
		return err
	}
	if m.watcher != nil {
		defer m.watcher.Close()
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if !m.remote {
		return tea.Batch(m.loadNotes(), waitForChange(m.watcher, m.cfg.NotesFile))
	}
	return m.checkSession()
}

// -------------- commands --------------

func (m Model) checkSession() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		if !c.Authenticated() {
			return signedOutMsg{}
		}
		sess, err := c.Me()
		if err != nil {
			// Stale or revoked token; treat as logged out.
			return signedOutMsg{}
		}
		return signedInMsg{email: sess.Email, userID: sess.UserID}
	}
}

func (m Model) loadNotes() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notes, err := s.List()
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return notesLoadedMsg{notes: notes}
	}
}

func (m Model) saveNote(text string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.Create(text); err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{}
	}
}

func (m Model) deleteNote(id int) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.Delete(id); err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{}
	}
}

func (m Model) signIn(email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		sess, err := c.SignIn(email, password)
		if err != nil {
			return formFailedMsg{msg: loginFailedMsg}
		}
		if err := client.SaveToken(client.TokenInfo{Token: sess.Token, Email: sess.Email, UserID: sess.UserID}); err != nil {
			return formFailedMsg{msg: "could not save session: " + err.Error()}
		}
		return signedInMsg{email: sess.Email, userID: sess.UserID}
	}
}

func (m Model) signUp(email, password, confirm string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		if err := c.SignUp(email, password, confirm); err != nil {
			// Sign-up refusals are shown as the server said them.
			return formFailedMsg{msg: err.Error()}
		}
		return signupDoneMsg{}
	}
}

func (m Model) signOut() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		_ = c.SignOut()
		_ = client.DeleteToken()
		return signedOutMsg{}
	}
}

// -------------- update --------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case signedInMsg:
		m.busy = false
		m.session = sessionAuthenticated
		m.email = msg.email
		m.currentView = viewNotes
		m.formErr = ""
		m.notice = ""
		m.status = ""
		return m, m.loadNotes()

	case signedOutMsg:
		m.busy = false
		m.session = sessionUnauthenticated
		m.email = ""
		m.notes = nil
		m.loadErr = ""
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		if m.remote {
			m.currentView = viewLogin
			m.fields = loginFields()
			m.focusIdx = 0
		}
		return m, nil

	case notesLoadedMsg:
		m.busy = false
		m.status = ""
		m.loadErr = ""
		m.notes = msg.notes
		if m.cursor >= len(m.notes) {
			m.cursor = len(m.notes) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case loadFailedMsg:
		m.busy = false
		m.status = ""
		m.notes = nil
		if errors.Is(msg.err, store.ErrNotAuthenticated) {
			return m, func() tea.Msg { return signedOutMsg{} }
		}
		m.loadErr = msg.err.Error()
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.status = ""
		if m.adding {
			m.adding = false
			m.input.SetValue("")
			m.input.Blur()
			m.inputErr = ""
		}
		return m, m.loadNotes()

	case opFailedMsg:
		// The input keeps its text and the control comes back; the user
		// decides whether to retry.
		m.busy = false
		m.status = ""
		m.inputErr = msg.err.Error()
		return m, nil

	case signupDoneMsg:
		m.busy = false
		m.currentView = viewLogin
		m.fields = loginFields()
		m.focusIdx = 0
		m.formErr = ""
		m.notice = "Account created. Please log in."
		return m, nil

	case formFailedMsg:
		m.busy = false
		m.formErr = msg.msg
		return m, nil

	case fileChangedMsg:
		// Another process rewrote the notes file; rebuild from disk and
		// keep listening.
		return m, tea.Batch(m.loadNotes(), waitForChange(m.watcher, m.cfg.NotesFile))

	case tea.KeyMsg:
		// A pending operation owns the UI until its result arrives.
		if m.busy {
			return m, nil
		}
		if m.currentView != viewNotes {
			return m.updateForm(msg)
		}
		return m.updateNotes(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				m.inputErr = "Please write something before saving!"
				return m, nil
			}
			m.busy = true
			m.status = "Saving..."
			m.inputErr = ""
			return m, m.saveNote(text)
		case "esc":
			m.adding = false
			m.inputErr = ""
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			if m.cursor < len(m.notes) {
				m.busy = true
				m.status = "Deleting..."
				return m, m.deleteNote(m.notes[m.cursor].ID)
			}
		}
		m.status = ""
		return m, nil
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
		return m, nil

	case "a":
		m.adding = true
		m.inputErr = ""
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if len(m.notes) == 0 || m.cursor >= len(m.notes) {
			return m, nil
		}
		if m.remote {
			// Hosted notes ask before deleting; the local file mirrors
			// the instant delete it always had.
			m.confirming = true
			m.status = "Delete this note? (y/n)"
			return m, nil
		}
		m.busy = true
		m.status = "Deleting..."
		return m, m.deleteNote(m.notes[m.cursor].ID)

	case "r":
		return m, m.loadNotes()

	case "L":
		if m.remote {
			m.busy = true
			m.status = "Logging out..."
			return m, m.signOut()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "down", "up":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focusIdx--
		} else {
			m.focusIdx++
		}
		if m.focusIdx < 0 {
			m.focusIdx = len(m.fields) - 1
		}
		if m.focusIdx >= len(m.fields) {
			m.focusIdx = 0
		}
		for i := range m.fields {
			if i == m.focusIdx {
				m.fields[i].Focus()
			} else {
				m.fields[i].Blur()
			}
		}
		return m, textinput.Blink

	case "ctrl+s":
		// Switch between login and signup.
		if m.currentView == viewLogin {
			m.currentView = viewSignup
			m.fields = signupFields()
		} else {
			m.currentView = viewLogin
			m.fields = loginFields()
		}
		m.focusIdx = 0
		m.formErr = ""
		m.notice = ""
		return m, nil

	case "enter":
		if m.focusIdx < len(m.fields)-1 {
			m.fields[m.focusIdx].Blur()
			m.focusIdx++
			m.fields[m.focusIdx].Focus()
			return m, textinput.Blink
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.fields[m.focusIdx], cmd = m.fields[m.focusIdx].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.currentView == viewLogin {
		email := strings.TrimSpace(m.fields[0].Value())
		password := m.fields[1].Value()
		if err := auth.ValidateLogin(email, password); err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.busy = true
		m.formErr = ""
		return m, m.signIn(email, password)
	}

	email := strings.TrimSpace(m.fields[0].Value())
	password := m.fields[1].Value()
	confirm := m.fields[2].Value()
	// Local rules first; the server is only asked once they pass.
	if err := auth.ValidateSignup(email, password, confirm); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.busy = true
	m.formErr = ""
	return m, m.signUp(email, password, confirm)
}

func loginFields() []textinput.Model {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword

	return []textinput.Model{email, password}
}

func signupFields() []textinput.Model {
	fields := loginFields()
	fields[1].Placeholder = "Password (min 8 characters)"

	confirm := textinput.New()
	confirm.Placeholder = "Confirm password"
	confirm.EchoMode = textinput.EchoPassword

	return append(fields, confirm)
}

// -------------- view --------------

func (m Model) View() string {
	var b strings.Builder

	title := "Gratitude Jar"
	if m.email != "" {
		title += mutedStyle.Render("  " + m.email)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.remote && m.session == sessionUnknown:
		b.WriteString(mutedStyle.Render("Checking session..."))

	case m.currentView == viewLogin, m.currentView == viewSignup:
		b.WriteString(m.formView())

	default:
		b.WriteString(m.notesView())
	}

	return panelStyle.Render(b.String())
}

func (m Model) formView() string {
	var b strings.Builder
	if m.currentView == viewLogin {
		b.WriteString("Log in\n\n")
	} else {
		b.WriteString("Sign up\n\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}
	if m.formErr != "" {
		b.WriteString(errorStyle.Render(m.formErr) + "\n\n")
	}
	for i := range m.fields {
		b.WriteString(m.fields[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString(mutedStyle.Render("Please wait..."))
	} else if m.currentView == viewLogin {
		b.WriteString(helpStyle.Render("enter: log in · ctrl+s: sign up instead · esc: quit"))
	} else {
		b.WriteString(helpStyle.Render("enter: sign up · ctrl+s: log in instead · esc: quit"))
	}
	return b.String()
}

func (m Model) notesView() string {
	var b strings.Builder

	switch {
	case m.loadErr != "":
		b.WriteString(errorStyle.Render("Could not load notes: " + m.loadErr))
		b.WriteString("\n")
	case m.remote && m.session != sessionAuthenticated:
		b.WriteString(mutedStyle.Render("Not logged in."))
		b.WriteString("\n")
	case len(m.notes) == 0:
		b.WriteString(mutedStyle.Render("No gratitude notes yet. Start writing!"))
		b.WriteString("\n")
	default:
		for i, n := range m.notes {
			prefix := "  "
			text := noteStyle.Render(n.Text)
			if i == m.cursor {
				prefix = selectedStyle.Render("> ")
			}
			b.WriteString(prefix + text + "\n")
			b.WriteString("  " + dateStyle.Render(n.CreatedAt.Format("Jan 2, 2006 3:04 PM")) + "\n")
		}
	}

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
		if m.inputErr != "" {
			b.WriteString(errorStyle.Render(m.inputErr) + "\n")
		}
		b.WriteString(helpStyle.Render("enter: save · esc: cancel"))
		return b.String()
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(noticeStyle.Render(m.status))
	} else if m.inputErr != "" {
		b.WriteString(errorStyle.Render(m.inputErr))
	} else {
		help := "a: add · d: delete · r: reload · q: quit"
		if m.remote {
			help += " · L: log out"
		}
		b.WriteString(helpStyle.Render(help))
	}
	return b.String()
}
