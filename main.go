package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/genuinetools/pkg/cli"
	"github.com/genuinetools/stale/rules"
	"github.com/genuinetools/stale/version"
	"github.com/sirupsen/logrus"
)

var (
	rulesPath string

	debug bool
)

func main() {
	// Create a new cli program.
	p := cli.NewProgram()
	p.Name = "stale"
	p.Description = "Find processes holding deleted files and classify the restart impact of their units"
	// Set the GitCommit and Version.
	p.GitCommit = version.GITCOMMIT
	p.Version = version.VERSION

	// Build the list of available commands.
	p.Commands = []cli.Command{
		&lsCommand{},
		&pathsCommand{},
		&scanCommand{},
		&unitsCommand{},
	}

	// Setup the global flags.
	p.FlagSet = flag.NewFlagSet("stale", flag.ExitOnError)
	p.FlagSet.BoolVar(&debug, "debug", false, "enable debug logging")
	p.FlagSet.BoolVar(&debug, "d", false, "enable debug logging")
	p.FlagSet.StringVar(&rulesPath, "rules", "/etc/stale/rules", "Rule file, or directory of rule files")

	// Set the before function.
	p.Before = func(ctx context.Context) error {
		// Set the log level.
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if len(rulesPath) < 1 {
			return errors.New("rules path cannot be empty")
		}

		return nil
	}

	// Run our program.
	p.Run()
}

// loadRules compiles the ruleset from the configured rule file or
// directory. Directories are read in sorted filename order so precedence
// between files is stable.
func loadRules() (*rules.Ruleset, error) {
	fi, err := os.Stat(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("reading rules path %s failed: %v", rulesPath, err)
	}

	files := []string{}
	if fi.IsDir() {
		entries, err := os.ReadDir(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("listing files in rules directory %s failed: %v", rulesPath, err)
		}
		for _, entry := range entries {
			switch filepath.Ext(entry.Name()) {
			case ".toml", ".yml", ".yaml":
				files = append(files, filepath.Join(rulesPath, entry.Name()))
			}
		}
		sort.Strings(files)
		if len(files) < 1 {
			return nil, fmt.Errorf("no rule files found in %s", rulesPath)
		}
	} else {
		files = append(files, rulesPath)
	}

	rs, err := rules.ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Loaded rules from: %s", strings.Join(files, ", "))

	return rs, nil
}
