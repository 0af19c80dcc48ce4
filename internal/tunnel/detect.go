package tunnel

import (
	"os"
	"strings"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// detectByCommand scans the process table for a live tunnel command
// started outside this supervisor. Best effort: scan errors count as
// not found.
func detectByCommand(binary string) (int, bool) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return 0, false
	}

	self := os.Getpid()
	for _, p := range procs {
		if int(p.Pid) == self {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}
		if strings.Contains(cmdline, binary) && strings.Contains(cmdline, "tunnel") {
			return int(p.Pid), true
		}
	}
	return 0, false
}
