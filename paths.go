package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

const pathsHelp = `Check paths against the ignore rules.`

func (cmd *pathsCommand) Name() string      { return "paths" }
func (cmd *pathsCommand) Args() string      { return "PATH [PATH...]" }
func (cmd *pathsCommand) ShortHelp() string { return pathsHelp }
func (cmd *pathsCommand) LongHelp() string  { return pathsHelp }
func (cmd *pathsCommand) Hidden() bool      { return false }

func (cmd *pathsCommand) Register(fs *flag.FlagSet) {
}

type pathsCommand struct {
}

func (cmd *pathsCommand) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("must pass at least one path")
	}

	rs, err := loadRules()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 20, 1, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tRESULT")
	for _, path := range args {
		result := "significant"
		if rs.IgnorePath(path) {
			result = "ignored"
		}
		fmt.Fprintf(w, "%s\t%s\n", path, result)
	}

	return w.Flush()
}
