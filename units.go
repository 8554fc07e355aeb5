package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

const unitsHelp = `Classify unit names by restart impact.`

func (cmd *unitsCommand) Name() string      { return "units" }
func (cmd *unitsCommand) Args() string      { return "UNIT [UNIT...]" }
func (cmd *unitsCommand) ShortHelp() string { return unitsHelp }
func (cmd *unitsCommand) LongHelp() string  { return unitsHelp }
func (cmd *unitsCommand) Hidden() bool      { return false }

func (cmd *unitsCommand) Register(fs *flag.FlagSet) {
}

type unitsCommand struct {
}

func (cmd *unitsCommand) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("must pass at least one unit name")
	}

	rs, err := loadRules()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 20, 1, 3, ' ', 0)
	fmt.Fprintln(w, "UNIT\tGROUP")
	for _, unit := range args {
		c := rs.Classify(unit)
		group := c.Group
		if c.Ignored {
			group = "ignored"
		}
		fmt.Fprintf(w, "%s\t%s\n", unit, group)
	}

	return w.Flush()
}
