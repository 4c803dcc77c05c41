package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/subcommands"

	"github.com/etnz/maney/devproxy"
	"github.com/etnz/maney/logging"
)

type proxyCmd struct {
	listen   string
	target   string
	prefixes string
}

func (*proxyCmd) Name() string     { return "proxy" }
func (*proxyCmd) Synopsis() string { return "run the development proxy in front of the backend" }
func (*proxyCmd) Usage() string {
	return `maney proxy [-listen <addr>] [-target <url>] [-prefixes /api,/user]

Forwards the backend paths to the backend, rewriting the Host header, until
interrupted. Point the client to it with a relative backend url.
`
}

func (c *proxyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.listen, "listen", "", "address to listen on (overrides the configuration)")
	f.StringVar(&c.target, "target", "", "backend url (overrides the configuration)")
	f.StringVar(&c.prefixes, "prefixes", "", "comma separated path prefixes to forward (overrides the configuration)")
}

func (c *proxyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	pcfg := cfg.DevProxy()
	if c.listen != "" {
		pcfg.Listen = c.listen
	}
	if c.target != "" {
		pcfg.Target = c.target
	}
	if c.prefixes != "" {
		pcfg.Prefixes = strings.Split(c.prefixes, ",")
	}

	level := cfg.Logging.Level
	if level == "warn" {
		level = "info" // a server reports it started
	}
	proxy, err := devproxy.New(pcfg, logging.New(level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	devproxy.PrintBanner(os.Stderr, proxy.Config())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := proxy.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
