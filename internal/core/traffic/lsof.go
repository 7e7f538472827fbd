package traffic

import (
	"cmp"
	"slices"
	"strings"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/domain"
)

// ParseConnectionOutput counts distinct connection lines per process name
// from lsof style output and ranks by that count. Byte figures stay zero.
func ParseConnectionOutput(out string, n int) []domain.ProcessTraffic {
	seen := make(map[string]struct{})
	counts := make(map[string]int)

	for _, line := range command.Lines(out) {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] == "COMMAND" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		counts[fields[0]]++
	}

	ranked := make([]domain.ProcessTraffic, 0, len(counts))
	for name, c := range counts {
		ranked = append(ranked, domain.ProcessTraffic{ProcessName: name, Connections: c})
	}

	slices.SortFunc(ranked, func(a, b domain.ProcessTraffic) int {
		if c := cmp.Compare(b.Connections, a.Connections); c != 0 {
			return c
		}
		return cmp.Compare(a.ProcessName, b.ProcessName)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
