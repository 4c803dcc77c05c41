package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/etnz/maney/view"
)

// assetCmd is a container for asset subcommands
type assetCmd struct {
}

func (*assetCmd) Name() string     { return "asset" }
func (*assetCmd) Synopsis() string { return "show, create, edit or delete an illiquid asset" }
func (*assetCmd) Usage() string {
	return `asset <subcommand> [args]

Commands:
  show   - Show an asset.
  new    - Create an asset.
  edit   - Change the fields of an asset.
  delete - Delete an asset, after confirmation.
`
}

func (c *assetCmd) SetFlags(f *flag.FlagSet) {}
func (c *assetCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "asset")
	for _, sub := range assetCommands {
		commander.Register(sub, "")
	}
	return commander.Execute(ctx, args...)
}

// assetCommands are the subcommands of the asset command.
var assetCommands = []subcommands.Command{
	&assetShowCmd{},
	&assetNewCmd{},
	&assetEditCmd{},
	&assetDeleteCmd{},
}

// assetFields are the flags setting the fields of an asset.
type assetFields struct {
	name        string
	description string
	value       string
	set         map[string]bool
}

func (a *assetFields) register(f *flag.FlagSet) {
	f.StringVar(&a.name, "name", "", "name of the asset")
	f.StringVar(&a.description, "description", "", "description of the asset")
	f.StringVar(&a.value, "value", "", "estimated value of the asset, in the display currency")
}

// lines returns the shell lines setting the fields given on the command line.
func (a *assetFields) lines(f *flag.FlagSet) []string {
	var lines []string
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			lines = append(lines, "set name "+a.name)
		case "description":
			lines = append(lines, "set description "+a.description)
		case "value":
			lines = append(lines, "set estimatedValue "+a.value)
		}
	})
	return lines
}

// assetID parses the single argument of an asset subcommand.
func assetID(f *flag.FlagSet) (int64, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expecting exactly one asset id")
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid asset id %q", f.Arg(0))
	}
	return id, nil
}

type assetShowCmd struct{}

func (*assetShowCmd) Name() string     { return "show" }
func (*assetShowCmd) Synopsis() string { return "show an asset" }
func (*assetShowCmd) Usage() string {
	return `maney asset show <id>
`
}
func (c *assetShowCmd) SetFlags(f *flag.FlagSet) {}

func (c *assetShowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := assetID(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	sh := app.shell()
	sh.Show(ctx, view.AssetPath(id))
	if a, ok := sh.Current().(*view.Asset); !ok || a.State().Status != view.Ready {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type assetNewCmd struct {
	fields assetFields
}

func (*assetNewCmd) Name() string     { return "new" }
func (*assetNewCmd) Synopsis() string { return "create an asset" }
func (*assetNewCmd) Usage() string {
	return `maney asset new -name <name> [-description <text>] [-value <amount>]

Creates an asset in the portfolio and shows it. An unparsable value counts
as 0, a negative one is refused.
`
}
func (c *assetNewCmd) SetFlags(f *flag.FlagSet) { c.fields.register(f) }

func (c *assetNewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fields.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	lines := append(c.fields.lines(f), "save")
	if err := app.shell().Do(ctx, view.PathNewAsset, lines...); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating asset: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type assetEditCmd struct {
	fields assetFields
}

func (*assetEditCmd) Name() string     { return "edit" }
func (*assetEditCmd) Synopsis() string { return "change the fields of an asset" }
func (*assetEditCmd) Usage() string {
	return `maney asset edit [-name <name>] [-description <text>] [-value <amount>] <id>

Changes the given fields of an asset, the others are kept.
`
}
func (c *assetEditCmd) SetFlags(f *flag.FlagSet) { c.fields.register(f) }

func (c *assetEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := assetID(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	lines := append([]string{"edit"}, c.fields.lines(f)...)
	lines = append(lines, "save")
	if err := app.shell().Do(ctx, view.AssetPath(id), lines...); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving asset: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type assetDeleteCmd struct {
	yes bool
}

func (*assetDeleteCmd) Name() string     { return "delete" }
func (*assetDeleteCmd) Synopsis() string { return "delete an asset" }
func (*assetDeleteCmd) Usage() string {
	return `maney asset delete [-yes] <id>

Deletes an asset after confirmation, then shows the portfolio.
`
}
func (c *assetDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "do not ask for confirmation")
}

func (c *assetDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := assetID(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	vapp := app.view()
	sh := app.shellFor(vapp)
	if c.yes {
		vapp.Confirm = view.ConfirmerFunc(func(string) bool { return true })
	}
	if err := sh.Do(ctx, view.AssetPath(id), "delete"); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting asset: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
