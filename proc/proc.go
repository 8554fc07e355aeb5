// Package proc provides tools for finding deleted files still held open by
// processes in /proc.
package proc

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const deletedSuffix = " (deleted)"

var (
	// Matches one line of /proc/<pid>/maps, capturing the inode and the
	// backing path. The path may be empty for anonymous mappings.
	mapsLineRegex = regexp.MustCompile(`^[0-9a-f]+-[0-9a-f]+ [rwxps-]{4} [0-9a-f]+ [0-9a-f]+:[0-9a-f]+ (\d+) *(.*)$`)
)

// Stats counts scan problems that are reported but not fatal.
type Stats struct {
	// PermissionErrors is the number of pids or paths the scan could not
	// inspect. A non-zero count usually means the scan ran unprivileged.
	PermissionErrors int
}

// mapping is one file-backed entry of a maps file.
type mapping struct {
	inode uint64
	path  string
}

// DeletedFiles walks /proc and returns, for every path that passes keep,
// the sorted pids still mapping a deleted or replaced copy of it. keep is
// applied before any stat so that ignore rules also suppress the noise
// pseudo paths would otherwise generate.
func DeletedFiles(keep func(path string) bool) (map[string][]int, Stats, error) {
	var stats Stats
	users := map[string]map[int]bool{}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, stats, fmt.Errorf("listing /proc failed: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		b, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", pid))
		if err != nil {
			if os.IsPermission(err) {
				stats.PermissionErrors++
			}
			logrus.Warnf("reading details of pid %d: %v", pid, err)
			continue
		}

		for _, line := range strings.Split(string(b), "\n") {
			if len(line) < 1 {
				continue
			}

			m, err := parseMapsLine(line)
			if err != nil {
				logrus.Warnf("parse error for /proc/%d/maps: %v", pid, err)
				continue
			}
			if m.inode == 0 {
				// Anonymous mapping or pseudo path like [heap].
				continue
			}
			if !keep(m.path) {
				continue
			}

			stale, err := staleMapping(m)
			if err != nil {
				if os.IsPermission(err) {
					stats.PermissionErrors++
				}
				logrus.Warnf("failed to stat %s for %d: %v", m.path, pid, err)
				continue
			}
			if !stale {
				continue
			}

			if users[m.path] == nil {
				users[m.path] = map[int]bool{}
			}
			users[m.path][pid] = true
		}
	}

	out := make(map[string][]int, len(users))
	for path, pids := range users {
		list := make([]int, 0, len(pids))
		for pid := range pids {
			list = append(list, pid)
		}
		sort.Ints(list)
		out[path] = list
	}

	return out, stats, nil
}

// parseMapsLine parses one line of a maps file, stripping the marker the
// kernel appends to mappings of deleted files.
func parseMapsLine(line string) (mapping, error) {
	ma := mapsLineRegex.FindStringSubmatch(line)
	if ma == nil {
		return mapping{}, fmt.Errorf("line %q does not look like a maps entry", line)
	}

	inode, err := strconv.ParseUint(ma[1], 10, 64)
	if err != nil {
		return mapping{}, fmt.Errorf("parsing inode in line %q failed: %v", line, err)
	}

	return mapping{
		inode: inode,
		path:  strings.TrimSuffix(ma[2], deletedSuffix),
	}, nil
}

// staleMapping reports whether the file at m.path no longer backs the
// mapping, either because it is gone or because it was replaced and the
// inode changed.
func staleMapping(m mapping) (bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(m.path, &st); err != nil {
		if err == unix.ENOENT {
			return true, nil
		}
		return false, err
	}

	return st.Ino != m.inode, nil
}

// Exe returns the path of the binary the pid is running.
func Exe(pid int) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return "", fmt.Errorf("finding path of pid %d failed: %v", pid, err)
	}

	return path, nil
}

// Owner returns a display string for the user owning the pid, in the form
// "name [uid]". Uids without a passwd entry come back as "??? [uid]".
func Owner(pid int) string {
	var st unix.Stat_t
	if err := unix.Stat(fmt.Sprintf("/proc/%d", pid), &st); err != nil {
		return "???"
	}

	u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		return fmt.Sprintf("??? [%d]", st.Uid)
	}

	return fmt.Sprintf("%s [%d]", u.Username, st.Uid)
}
