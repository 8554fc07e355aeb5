// Package systemd resolves pids to the systemd units managing them.
package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// maxPidsPerCall keeps the argument list for a single ps invocation
// comfortably inside one page.
const maxPidsPerCall = 4096/8 - 32

var psLineRegex = regexp.MustCompile(`^ *(\d+) (.+)$`)

// Units resolves the systemd unit for each pid by asking ps. Pids that do
// not belong to a unit are absent from the result.
func Units(ctx context.Context, pids []int) (map[int]string, error) {
	units := make(map[int]string, len(pids))

	for _, chunk := range splitEvery(maxPidsPerCall, pids) {
		args := []string{"-opid=,unit="}
		for _, pid := range chunk {
			args = append(args, strconv.Itoa(pid))
		}

		out, err := exec.CommandContext(ctx, "ps", args...).Output()
		if err != nil {
			return nil, fmt.Errorf("running ps for %d pids failed: %v", len(chunk), err)
		}

		parsePsOutput(string(out), units)
	}

	return units, nil
}

// parsePsOutput parses `ps -opid=,unit=` output into units. Pids reported
// with the placeholder unit "-" are skipped.
func parsePsOutput(out string, units map[int]string) {
	for _, line := range strings.Split(out, "\n") {
		ma := psLineRegex.FindStringSubmatch(line)
		if ma == nil {
			continue
		}

		unit := strings.TrimSpace(ma[2])
		if unit == "-" {
			continue
		}

		pid, err := strconv.Atoi(ma[1])
		if err != nil {
			continue
		}

		units[pid] = unit
	}
}

// splitEvery splits pids into chunks of at most n.
func splitEvery(n int, pids []int) [][]int {
	chunks := [][]int{}
	for len(pids) > n {
		chunks = append(chunks, pids[:n])
		pids = pids[n:]
	}
	if len(pids) > 0 {
		chunks = append(chunks, pids)
	}

	return chunks
}
