// Package cmd implements the CLI application of the Maney client.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/etnz/maney"
	"github.com/etnz/maney/api"
	"github.com/etnz/maney/config"
	"github.com/etnz/maney/logging"
	"github.com/etnz/maney/renderer"
	"github.com/etnz/maney/session"
	"github.com/etnz/maney/shell"
	"github.com/etnz/maney/view"
)

// Commands are the subcommands of the application, registered by the main package.
var Commands = []subcommands.Command{
	&homeCmd{},
	&loginCmd{},
	&registerCmd{},
	&logoutCmd{},
	&whoamiCmd{},
	&portfolioCmd{},
	&assetCmd{},
	&shellCmd{},
	&proxyCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default "+config.DefaultPath()+")")
var verbose = flag.Bool("v", false, "Log debug messages")
var backendURL = flag.String("backend", "", "Backend url, absolute or relative to the dev proxy (overrides the configuration)")
var themeName = flag.String("theme", "", "Output theme: light or dark (overrides the configuration)")
var stateDir = flag.String("state-dir", "", "Directory holding the session (overrides the configuration)")

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath(), *configFile)
	if err != nil {
		return nil, err
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	if *themeName != "" {
		cfg.Shell.Theme = *themeName
	}
	if *stateDir != "" {
		cfg.Session.Dir = *stateDir
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if cfg.Currency != "" {
		maney.DefaultCurrency = cfg.Currency
	}
	return cfg, nil
}

// application holds what every command needs to talk to the backend.
type application struct {
	cfg    *config.Config
	log    *logging.Logger
	store  session.Store
	client *api.Client
	theme  shell.Theme
}

// openApp loads the configuration and opens the session and the client.
func openApp() (*application, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	theme, err := shell.ParseTheme(cfg.Shell.Theme)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging.Level)

	store, err := session.Open(cfg.Session.Store, cfg.Session.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("cannot open session: %w", err)
	}
	// cookies live as long as the session they belong to.
	jarPath := filepath.Join(cfg.Session.Dir, "cookies.json")
	if cfg.Session.Store == session.KindMemory {
		jarPath = ""
	}
	jar, err := api.NewJar(jarPath, log)
	if err != nil {
		return nil, err
	}

	apiCfg, err := cfg.API()
	if err != nil {
		return nil, err
	}
	client, err := api.New(apiCfg, api.WithJar(jar), api.WithStore(store), api.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("cannot create client: %w", err)
	}
	log.Debug().Str("backend", client.URL("/")).Str("session", cfg.Session.Store).Msg("application opened")
	return &application{cfg: cfg, log: log, store: store, client: client, theme: theme}, nil
}

// Close releases the session store.
func (a *application) Close() {
	if c, ok := a.store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			a.log.Warn().Err(err).Msg("cannot close session store")
		}
	}
}

// view returns a fresh context for views.
func (a *application) view() *view.App {
	return &view.App{Backend: a.client, Session: a.store, Log: a.log}
}

// shell returns a shell on the standard streams. Views are printed as plain
// markdown when stdout is not a terminal.
func (a *application) shell() *shell.Shell { return a.shellFor(a.view()) }

// shellFor returns a shell running the views of vapp.
func (a *application) shellFor(vapp *view.App) *shell.Shell {
	opts := []shell.Option{
		shell.WithTheme(a.theme),
		shell.WithWidth(a.cfg.Shell.Width),
		shell.WithLogger(a.log),
	}
	if !isTerminal(os.Stdout) {
		opts = append(opts, shell.WithDisplay(func(md string) { fmt.Print(md) }))
	}
	return shell.New(vapp, os.Stdin, os.Stdout, opts...)
}

func isTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// printMarkdown prints md to the terminal with the theme of the configuration,
// or as is when stdout is not a terminal.
func printMarkdown(md string) {
	if !isTerminal(os.Stdout) {
		fmt.Print(md)
		return
	}
	style := "light"
	width := 100
	if cfg, err := loadConfig(); err == nil {
		if t, err := shell.ParseTheme(cfg.Shell.Theme); err == nil {
			style = t.Style()
		}
		width = cfg.Shell.Width
	}
	out, err := renderer.Terminal(md, style, width)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// readPassword reads a password from the terminal without echo. It returns an
// empty password when stdin is not a terminal.
func readPassword(prompt string) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", nil
	}
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	return string(b), nil
}
