package cmd

import (
	"flag"
	"io"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/maney/docs"
	"github.com/etnz/maney/shell"
	"github.com/etnz/maney/view"
)

// Completion returns the shell completion of the command line.
func Completion() *complete.Command {
	sub := make(map[string]*complete.Command)
	for _, c := range Commands {
		sub[c.Name()] = completionOf(c)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		sub[name] = &complete.Command{}
	}

	if topics, err := docs.GetAllTopics(); err == nil {
		sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	sub["shell"].Flags["start"] = predict.Set{
		view.PathHome, view.PathLogin, view.PathRegister, view.PathPortfolio, view.PathNewAsset,
	}
	assets := make(map[string]*complete.Command)
	for _, c := range assetCommands {
		assets[c.Name()] = completionOf(c)
	}
	sub["asset"].Sub = assets

	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.toml"),
			"v":         predict.Nothing,
			"backend":   predict.Something,
			"theme":     predict.Set{string(shell.Light), string(shell.Dark)},
			"state-dir": predict.Dirs("*"),
		},
	}
}

// completionOf completes the flags a command declares.
func completionOf(c subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.SetFlags(fs)
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if _, ok := f.Value.(interface{ IsBoolFlag() bool }); ok {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return &complete.Command{Flags: flags}
}
