package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"gratitude/internal/auth"
	"gratitude/internal/client"
	"gratitude/internal/config"
	"gratitude/internal/store"
	"gratitude/internal/store/localstore"
	"gratitude/internal/store/remotestore"
	"gratitude/internal/tui"
)

// Options tune behavior from root flags.
type Options struct {
	Remote bool // talk to the hosted service instead of the local file
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "add":
		if len(a) == 0 {
			fail("usage: gratitude add <text...>")
			return 2
		}
		return doAdd(strings.Join(a, " "), opt)

	case "rm":
		if len(a) != 1 {
			fail("usage: gratitude rm <number>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(n, opt)

	case "signup":
		if len(a) != 1 {
			fail("usage: gratitude signup <email>")
			return 2
		}
		return doSignup(a[0])

	case "login":
		if len(a) != 1 {
			fail("usage: gratitude login <email>")
			return 2
		}
		return doLogin(a[0])

	case "logout":
		return doLogout()

	case "tui":
		return doTUI(opt)
	}

	fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`gratitude - a tiny gratitude journal

Usage:
  gratitude [-remote] <subcommand> [args]

Subcommands:
  ls                 List notes, newest first
  add <text...>      Save a new note
  rm <number>        Delete the note at the number `+"`ls`"+` printed
  tui                Interactive mode
  signup <email>     Create an account on the hosted service
  login <email>      Log in to the hosted service
  logout             Log out and forget the saved session

Notes live in a local file by default; pass -remote (after logging in)
to keep them on the hosted service instead.

Examples:
  gratitude add "Morning coffee on the balcony"
  gratitude ls
  gratitude rm 2
  gratitude -remote ls
`)
}

// openStore picks the backend for the note subcommands.
func openStore(opt Options) (store.Store, error) {
	cfg := config.LoadConfig()
	if !opt.Remote {
		return localstore.New(cfg.NotesFile), nil
	}

	ti, err := client.LoadToken()
	if err != nil {
		return nil, err
	}
	token := ""
	if ti != nil {
		token = ti.Token
	}
	return remotestore.New(client.New(cfg.ServerURL, token)), nil
}

// -------------- subcommand impls ----------------

func doList(opt Options) int {
	s, err := openStore(opt)
	if err != nil {
		fail("open store: " + err.Error())
		return 1
	}

	notes, err := s.List()
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			fmt.Println(mutedStyle.Render("Not logged in. Run `gratitude login <email>` first."))
			return 1
		}
		fail("load: " + err.Error())
		return 1
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Gratitude notes"))
	lines = append(lines, "")
	if len(notes) == 0 {
		lines = append(lines, mutedStyle.Render("No gratitude notes yet. Start writing!"))
	} else {
		for i, n := range notes {
			num := i + 1
			if opt.Remote {
				num = n.ID
			}
			lines = append(lines, fmt.Sprintf("%s %s",
				mutedStyle.Render(fmt.Sprintf("%3d.", num)), n.Text))
			lines = append(lines, mutedStyle.Render("     "+n.CreatedAt.Format("Jan 2, 2006 3:04 PM")))
		}
	}
	panel(lines)
	return 0
}

func doAdd(text string, opt Options) int {
	s, err := openStore(opt)
	if err != nil {
		fail("open store: " + err.Error())
		return 1
	}

	if err := s.Create(text); err != nil {
		var verr *store.ValidationError
		switch {
		case errors.As(err, &verr):
			fail("add: " + verr.Msg)
			return 2
		case errors.Is(err, store.ErrNotAuthenticated):
			fail("add: not logged in")
			return 1
		default:
			fail("add: " + err.Error())
			return 1
		}
	}
	ok("saved")
	return 0
}

// doRemove deletes by the number ls printed: a 1-based position for the
// local file, the server id in remote mode.
func doRemove(n int, opt Options) int {
	s, err := openStore(opt)
	if err != nil {
		fail("open store: " + err.Error())
		return 1
	}

	id := n
	if !opt.Remote {
		notes, err := s.List()
		if err != nil {
			fail("load: " + err.Error())
			return 1
		}
		if n < 1 || n > len(notes) {
			fail(fmt.Sprintf("rm: out of range: have %d, got %d", len(notes), n))
			return 2
		}
		// Positions are only valid against the list just loaded.
		id = notes[n-1].ID
	}

	if err := s.Delete(id); err != nil {
		fail("rm: " + err.Error())
		return 1
	}
	ok("deleted")
	return 0
}

func doSignup(email string) int {
	password, confirm, ok2 := readNewPassword()
	if !ok2 {
		return 1
	}

	// The same rules the server applies, checked before any network call.
	if err := auth.ValidateSignup(email, password, confirm); err != nil {
		fail(err.Error())
		return 2
	}

	cfg := config.LoadConfig()
	if err := client.New(cfg.ServerURL, "").SignUp(email, password, confirm); err != nil {
		fail("signup: " + err.Error())
		return 1
	}

	fmt.Println(noticeStyle.Render("Account created. Log in with `gratitude login " + email + "`."))
	return 0
}

func doLogin(email string) int {
	password, ok2 := readPassword("Password: ")
	if !ok2 {
		return 1
	}
	if err := auth.ValidateLogin(email, password); err != nil {
		fail(err.Error())
		return 2
	}

	cfg := config.LoadConfig()
	sess, err := client.New(cfg.ServerURL, "").SignIn(email, password)
	if err != nil {
		// Deliberately the same wording for every cause.
		fail("Invalid email or password")
		return 1
	}

	if err := client.SaveToken(client.TokenInfo{Token: sess.Token, Email: sess.Email, UserID: sess.UserID}); err != nil {
		fail("save credentials: " + err.Error())
		return 1
	}
	ok("logged in as " + sess.Email)
	return 0
}

func doLogout() int {
	cfg := config.LoadConfig()
	if ti, err := client.LoadToken(); err == nil && ti != nil {
		// Best effort; the credential is forgotten either way.
		_ = client.New(cfg.ServerURL, ti.Token).SignOut()
	}
	if err := client.DeleteToken(); err != nil {
		fail("logout: " + err.Error())
		return 1
	}
	ok("logged out")
	return 0
}

func doTUI(opt Options) int {
	if err := tui.Run(opt.Remote); err != nil {
		fail(err.Error())
		return 1
	}
	return 0
}

// -------------- prompts --------------

func readPassword(prompt string) (string, bool) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fail("read password: " + err.Error())
		return "", false
	}
	return string(b), true
}

func readNewPassword() (password, confirm string, ok bool) {
	password, ok = readPassword("Password (min 8 characters): ")
	if !ok {
		return "", "", false
	}
	confirm, ok = readPassword("Confirm password: ")
	if !ok {
		return "", "", false
	}
	return password, confirm, true
}
