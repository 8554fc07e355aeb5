package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/genuinetools/stale/rules"
)

const lsHelp = `List the loaded rule groups.`

func (cmd *lsCommand) Name() string      { return "ls" }
func (cmd *lsCommand) Args() string      { return "[OPTIONS]" }
func (cmd *lsCommand) ShortHelp() string { return lsHelp }
func (cmd *lsCommand) LongHelp() string  { return lsHelp }
func (cmd *lsCommand) Hidden() bool      { return false }

func (cmd *lsCommand) Register(fs *flag.FlagSet) {
}

type lsCommand struct {
}

func (cmd *lsCommand) Run(ctx context.Context, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}
	src := rs.Source()

	fmt.Printf("%d ignore path prefixes, %d catchall unit patterns\n\n",
		len(src.IgnorePaths.ByPrefix),
		len(src.CatchallUnits.ByRegex)+len(src.CatchallUnits.ByFull)+len(src.CatchallUnits.ByPrefix))

	w := tabwriter.NewWriter(os.Stdout, 20, 1, 3, ' ', 0)
	fmt.Fprintln(w, "GROUP\tFULL\tREGEX\tPREFIX")
	for _, g := range src.GroupServices {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", g.Group, len(g.ByFull), len(g.ByRegex), len(g.ByPrefix))
	}
	// The fallback group exists even though no file declares it.
	fmt.Fprintf(w, "%s\t0\t0\t0\n", rules.GroupOther)

	return w.Flush()
}
