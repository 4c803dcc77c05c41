// Package shell is the interactive front end of the client: it routes paths
// to views, renders the current view and reads commands from the user.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/etnz/maney/logging"
	"github.com/etnz/maney/renderer"
	"github.com/etnz/maney/view"
)

// maxRedirects bounds the chain of navigations a single command can trigger.
const maxRedirects = 8

// Shell runs the views of an App, one at a time.
type Shell struct {
	app     *view.App
	router  *Router
	theme   Theme
	width   int
	in      *bufio.Scanner
	out     io.Writer
	display func(md string)
	log     *logging.Logger

	path    string
	current view.View
	pending string
}

// Option configures the shell.
type Option func(*Shell)

// WithTheme sets the initial theme.
func WithTheme(t Theme) Option { return func(s *Shell) { s.theme = t } }

// WithWidth sets the width markdown is wrapped at.
func WithWidth(w int) Option { return func(s *Shell) { s.width = w } }

// WithDisplay replaces the terminal rendering of views. display receives the
// markdown of the current view.
func WithDisplay(display func(md string)) Option { return func(s *Shell) { s.display = display } }

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option { return func(s *Shell) { s.log = log.Named("shell") } }

// New returns a shell reading commands from in and writing to out.
//
// The shell becomes the Navigator and the Confirmer of app: confirmations are
// read from in as well.
func New(app *view.App, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		app:    app,
		router: NewRouter(),
		theme:  Light,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    logging.Silent(),
	}
	app.Nav = s
	app.Confirm = s
	for _, opt := range opts {
		opt(s)
	}
	if app.Log == nil {
		app.Log = s.log
	}
	if s.display == nil {
		s.display = s.terminal
	}
	return s
}

// Navigate schedules a navigation, performed once the current action returns.
func (s *Shell) Navigate(path string) { s.pending = path }

// Confirm asks a yes/no question on the shell input. Anything but yes is no.
func (s *Shell) Confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	if !s.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// Path returns the path of the current view.
func (s *Shell) Path() string { return s.path }

// Theme returns the current theme.
func (s *Shell) Theme() Theme { return s.theme }

// Current returns the current view.
func (s *Shell) Current() view.View { return s.current }

// Run shows the view at start then executes commands until the input ends or
// the user quits.
func (s *Shell) Run(ctx context.Context, start string) error {
	s.Navigate(start)
	s.follow(ctx)
	s.show()
	for {
		fmt.Fprintf(s.out, "%s> ", s.path)
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		line := s.in.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		quit, err := s.Exec(ctx, line)
		var inline shownError
		if err != nil && !errors.As(err, &inline) {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if quit {
			break
		}
		s.show()
	}
	if s.current != nil {
		s.current.Unmount()
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("cannot read commands: %w", err)
	}
	return nil
}

// Show displays the view at path once.
func (s *Shell) Show(ctx context.Context, path string) {
	s.Navigate(path)
	s.follow(ctx)
	s.show()
}

// Do opens the view at start, executes lines in order and displays the view
// reached. It stops at the first failing line.
func (s *Shell) Do(ctx context.Context, start string, lines ...string) error {
	s.Navigate(start)
	s.follow(ctx)
	var err error
	for _, line := range lines {
		if _, err = s.Exec(ctx, line); err != nil {
			break
		}
	}
	s.show()
	return err
}

// follow performs pending navigations. Navigating to the current path keeps
// the current view as is.
func (s *Shell) follow(ctx context.Context) {
	for i := 0; s.pending != "" && i < maxRedirects; i++ {
		target := s.pending
		s.pending = ""
		factory, vars, path := s.router.Match(target)
		if path != target {
			s.log.Debug().Str("from", target).Str("to", path).Msg("redirect")
		}
		if path == s.path && s.current != nil {
			continue
		}
		if s.current != nil {
			s.current.Unmount()
		}
		s.path, s.current = path, factory(s.app, vars)
		s.current.Mount(ctx)
	}
	if s.pending != "" {
		s.log.Warn().Str("path", s.pending).Msg("too many redirects")
		s.pending = ""
	}
}

func (s *Shell) show() {
	if s.current == nil {
		return
	}
	s.display(renderer.Render(s.current))
}

func (s *Shell) terminal(md string) {
	out, err := renderer.Terminal(md, s.theme.Style(), s.width)
	if err != nil {
		s.log.Debug().Err(err).Msg("falling back to raw markdown")
		out = md
	}
	fmt.Fprint(s.out, out)
}

// ErrUsage is returned for commands that cannot be executed as typed.
var ErrUsage = errors.New("usage")

type command struct {
	usage string
	help  string
	run   func(s *Shell, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"go": {"go <path>", "show the view at path", func(s *Shell, ctx context.Context, args []string) error {
		if len(args) != 1 {
			return usage("go <path>")
		}
		s.Navigate(args[0])
		return nil
	}},
	"set": {"set <field> <value>", "set a form field, the value is the rest of the line", func(s *Shell, ctx context.Context, args []string) error {
		f, ok := s.current.(view.Form)
		if !ok || len(args) < 1 {
			return usage("set <field> <value>")
		}
		value := ""
		if len(args) > 1 {
			value = args[1]
		}
		return f.Set(args[0], value)
	}},
	"submit": {"submit", "submit the current form", func(s *Shell, ctx context.Context, args []string) error {
		f, ok := s.current.(view.Form)
		if !ok {
			return usage("submit")
		}
		return quiet(f.Submit(ctx))
	}},
	"edit": {"edit", "edit the current asset", func(s *Shell, ctx context.Context, args []string) error {
		a, err := s.asset("edit")
		if err != nil {
			return err
		}
		return a.Edit()
	}},
	"save": {"save", "save the asset being edited", func(s *Shell, ctx context.Context, args []string) error {
		a, err := s.asset("save")
		if err != nil {
			return err
		}
		return quiet(a.Save(ctx))
	}},
	"cancel": {"cancel", "stop editing the asset", func(s *Shell, ctx context.Context, args []string) error {
		a, err := s.asset("cancel")
		if err != nil {
			return err
		}
		a.Cancel(ctx)
		return nil
	}},
	"delete": {"delete", "delete the current asset, after confirmation", func(s *Shell, ctx context.Context, args []string) error {
		a, err := s.asset("delete")
		if err != nil {
			return err
		}
		return quiet(a.Delete(ctx))
	}},
	"open": {"open <id>", "show an asset of the portfolio", func(s *Shell, ctx context.Context, args []string) error {
		p, ok := s.current.(*view.Portfolio)
		if !ok || len(args) != 1 {
			return usage("open <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid asset id %q", args[0])
		}
		p.Open(id)
		return nil
	}},
	"new": {"new", "create an asset", func(s *Shell, ctx context.Context, args []string) error {
		s.Navigate(view.PathNewAsset)
		return nil
	}},
	"back": {"back", "go back to the portfolio", func(s *Shell, ctx context.Context, args []string) error {
		if a, ok := s.current.(*view.Asset); ok {
			a.Back()
			return nil
		}
		s.Navigate(view.PathHome)
		return nil
	}},
	"logout": {"logout", "end the session", func(s *Shell, ctx context.Context, args []string) error {
		return quiet(view.Logout(ctx, s.app))
	}},
	"reload": {"reload", "mount the current view again, as a full page reload", func(s *Shell, ctx context.Context, args []string) error {
		s.current.Unmount()
		s.current.Mount(ctx)
		return nil
	}},
	"theme": {"theme", "toggle between the light and dark theme", func(s *Shell, ctx context.Context, args []string) error {
		s.theme = s.theme.Toggle()
		fmt.Fprintf(s.out, "theme: %s\n", s.theme)
		return nil
	}},
}

// Exec executes one command line. It reports whether the shell must stop.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	if name == "set" && len(args) > 0 {
		args = setArgs(line)
	}
	switch name {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		s.help()
		return false, nil
	}
	c, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q, type help", name)
	}
	if s.current == nil {
		s.Navigate(view.PathHome)
		s.follow(ctx)
	}
	err := c.run(s, ctx, args)
	s.follow(ctx)
	return false, err
}

func (s *Shell) asset(name string) (*view.Asset, error) {
	a, ok := s.current.(*view.Asset)
	if !ok {
		return nil, fmt.Errorf("%s: not on an asset", name)
	}
	return a, nil
}

func (s *Shell) help() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.out, "Commands:")
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(s.out, "  %-22s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(s.out, "  %-22s %s\n", "help", "show this help")
	fmt.Fprintf(s.out, "  %-22s %s\n", "quit", "leave the shell")
}

// setArgs splits a set command line into the field and the value. The value
// is everything after the single separator following the field, spaces
// included, so that passwords reach the form unchanged.
func setArgs(line string) []string {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimLeft(strings.TrimPrefix(rest, "set"), " \t")
	i := strings.IndexAny(rest, " \t")
	if i < 0 {
		return []string{rest}
	}
	return []string{rest[:i], rest[i+1:]}
}

func usage(text string) error {
	return fmt.Errorf("%w: %s", ErrUsage, text)
}

// shownError is the failure of an action the current view already shows.
type shownError struct{ error }

func (e shownError) Unwrap() error { return e.error }

// quiet marks the errors the views show inline. The errors about the command
// itself are left as is.
func quiet(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, view.ErrBusy), errors.Is(err, view.ErrReadOnly), errors.Is(err, view.ErrUnknownField):
		return err
	}
	return shownError{err}
}

// Commands returns the names of the shell commands, for completion.
func Commands() []string {
	names := []string{"help", "quit"}
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
