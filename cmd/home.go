package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/maney/view"
)

type homeCmd struct{}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "show the landing page" }
func (*homeCmd) Usage() string {
	return `maney home

Shows the landing page, and the current user if any.
`
}

func (c *homeCmd) SetFlags(f *flag.FlagSet) {}

func (c *homeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()
	app.shell().Show(ctx, view.PathHome)
	return subcommands.ExitSuccess
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "list the illiquid assets of the portfolio" }
func (*portfolioCmd) Usage() string {
	return `maney portfolio

Fetches and shows the portfolio of the current user, with the estimated value
of every asset and their total. Without a valid session, the login form is
shown instead.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	sh := app.shell()
	sh.Show(ctx, view.PathPortfolio)
	if p, ok := sh.Current().(*view.Portfolio); !ok || p.State().Status != view.Ready {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
