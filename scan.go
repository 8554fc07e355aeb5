package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/genuinetools/stale/proc"
	"github.com/genuinetools/stale/systemd"
	"github.com/sirupsen/logrus"
)

const scanHelp = `Scan for processes holding deleted files and group their units by restart impact.`

func (cmd *scanCommand) Name() string      { return "scan" }
func (cmd *scanCommand) Args() string      { return "[OPTIONS]" }
func (cmd *scanCommand) ShortHelp() string { return scanHelp }
func (cmd *scanCommand) LongHelp() string  { return scanHelp }
func (cmd *scanCommand) Hidden() bool      { return false }

func (cmd *scanCommand) Register(fs *flag.FlagSet) {
}

type scanCommand struct {
}

func (cmd *scanCommand) Run(ctx context.Context, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}

	pathPids, stats, err := proc.DeletedFiles(func(path string) bool {
		return !rs.IgnorePath(path)
	})
	if err != nil {
		return err
	}

	// Invert to pid -> paths.
	pidPaths := map[int][]string{}
	for path, pids := range pathPids {
		for _, pid := range pids {
			pidPaths[pid] = append(pidPaths[pid], path)
		}
	}

	pids := make([]int, 0, len(pidPaths))
	for pid := range pidPaths {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	pidUnits, err := systemd.Units(ctx, pids)
	if err != nil {
		return err
	}
	logrus.Debugf("%d stale paths held by %d pids in %d units", len(pathPids), len(pids), len(pidUnits))

	// Classify each distinct unit once.
	groups := map[string][]string{}
	catchalls := false
	seen := map[string]bool{}
	for _, unit := range pidUnits {
		if seen[unit] {
			continue
		}
		seen[unit] = true

		c := rs.Classify(unit)
		if c.Ignored {
			catchalls = true
			continue
		}
		groups[c.Group] = append(groups[c.Group], unit)
	}

	for _, group := range sortedKeys(groups) {
		units := groups[group]
		sort.Strings(units)
		fmt.Printf(" * %s\n", group)
		fmt.Printf("   - sudo systemctl restart %s\n", strings.Join(units, " "))
	}
	if len(groups) < 1 {
		fmt.Println("No units need restarting.")
	}
	if catchalls {
		fmt.Println("Some pids not associated with units need restarting.")
	}

	// Attribute paths to units, and the rest to bare executables.
	unitPaths := map[string][]string{}
	byExe := map[string][]int{}
	for pid, paths := range pidPaths {
		unit, ok := pidUnits[pid]
		if ok && !rs.Classify(unit).Ignored {
			unitPaths[unit] = append(unitPaths[unit], paths...)
			continue
		}

		exe, err := proc.Exe(pid)
		if err != nil {
			logrus.Warnf("no unit and no exe for %d: %v", pid, err)
			continue
		}
		byExe[exe] = append(byExe[exe], pid)
	}

	if len(unitPaths) > 0 {
		fmt.Println("These units need restarting:")
		for _, unit := range sortedKeys(unitPaths) {
			fmt.Printf(" * %s\n", unit)
			for _, path := range uniqueSorted(unitPaths[unit]) {
				fmt.Printf("   - %s\n", path)
			}
		}
	}

	if len(byExe) > 0 {
		fmt.Println("These executables have processes running outside of useful units:")
		for _, exe := range sortedKeys(byExe) {
			pids := byExe[exe]
			sort.Ints(pids)

			fmt.Printf(" * %s\n", exe)
			fmt.Println("   - pids:")
			paths := []string{}
			for _, pid := range pids {
				fmt.Printf("     - %d (%s)\n", pid, proc.Owner(pid))
				paths = append(paths, pidPaths[pid]...)
			}
			fmt.Println("   - paths:")
			for _, path := range uniqueSorted(paths) {
				fmt.Printf("     - %s\n", path)
			}
		}
	}

	if stats.PermissionErrors > 0 {
		logrus.Warnf("hit %d permission errors while scanning, results are likely incomplete without root", stats.PermissionErrors)
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueSorted(items []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
