package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/maney/view"
)

type shellCmd struct {
	start string
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "browse and edit the portfolio interactively" }
func (*shellCmd) Usage() string {
	return `maney shell [-start <path>]

Starts an interactive session. The current view is printed after every
command; type 'help' for the list of commands.
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", view.PathRoot, "path of the first view")
}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if err := app.shell().Run(ctx, c.start); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
