package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/maney/view"
)

type loginCmd struct {
	email    string
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and show the portfolio" }
func (*loginCmd) Usage() string {
	return `maney login -email <email> [-password <password>]

Logs in to the backend. The user is kept in the session store and the server
session cookie in the state directory, so that following commands are
authenticated. The password is read from the terminal when not given.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "email of the account")
	f.StringVar(&c.username, "username", "", "username of the account, for backends identifying users by name")
	f.StringVar(&c.password, "password", "", "password, read from the terminal if empty")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" && c.username == "" {
		fmt.Fprintln(os.Stderr, "Error: -email or -username is required.")
		return subcommands.ExitUsageError
	}
	if c.password == "" {
		p, err := readPassword("Password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		c.password = p
	}

	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	lines := []string{"set password " + c.password, "submit"}
	if c.username != "" {
		lines = append([]string{"set username " + c.username}, lines...)
	}
	if c.email != "" {
		lines = append([]string{"set email " + c.email}, lines...)
	}
	if err := app.shell().Do(ctx, view.PathLogin, lines...); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging in: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type registerCmd struct {
	username string
	email    string
	password string
	confirm  string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account" }
func (*registerCmd) Usage() string {
	return `maney register -username <name> -email <email> [-password <password> -confirm <password>]

Creates an account. Passwords must match and have at least 6 characters, they
are read from the terminal when not given. Use 'maney login' afterwards.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "username of the new account")
	f.StringVar(&c.email, "email", "", "email of the new account")
	f.StringVar(&c.password, "password", "", "password, read from the terminal if empty")
	f.StringVar(&c.confirm, "confirm", "", "password confirmation, read from the terminal if empty")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" || c.email == "" {
		fmt.Fprintln(os.Stderr, "Error: -username and -email are required.")
		return subcommands.ExitUsageError
	}
	var err error
	if c.password == "" {
		if c.password, err = readPassword("Password: "); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.confirm == "" {
		if c.confirm, err = readPassword("Confirm password: "); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	err = app.shell().Do(ctx, view.PathRegister,
		"set username "+c.username,
		"set email "+c.email,
		"set password "+c.password,
		"set confirm "+c.confirm,
		"submit",
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Account %s created.\n", c.username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `maney logout

Ends the server session and forgets the current user. The local session is
cleared even when the backend cannot be reached.
`
}

func (c *logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if err := view.Logout(ctx, app.view()); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging out: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("✅ Logged out.")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "print the current user" }
func (*whoamiCmd) Usage() string {
	return `maney whoami

Prints the user kept in the session store. No request is sent: the server
session may have expired meanwhile.
`
}

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	u, ok := app.store.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return subcommands.ExitFailure
	}
	fmt.Printf("%s <%s>\n", u.Name(), u.Email)
	return subcommands.ExitSuccess
}
