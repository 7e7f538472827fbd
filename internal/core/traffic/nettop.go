package traffic

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/domain"
)

// ParseTrafficOutput reads "name.pid,bytesIn,bytesOut" records and sums the
// byte counts of every instance sharing a name. Malformed lines are dropped.
func ParseTrafficOutput(out string) map[string]domain.ProcessTraffic {
	totals := make(map[string]domain.ProcessTraffic)

	for _, line := range command.Lines(out) {
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			continue
		}

		in, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			continue
		}
		outBytes, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			continue
		}

		name := processName(strings.TrimSpace(fields[0]))
		if name == "" {
			continue
		}

		t := totals[name]
		t.ProcessName = name
		t.DownloadBytes += in
		t.UploadBytes += outBytes
		totals[name] = t
	}

	return totals
}

// processName strips a trailing ".<pid>". Dots that are part of the name,
// as in "com.apple.WebKit", stay.
func processName(id string) string {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return id
	}

	suffix := id[i+1:]
	if suffix == "" {
		return id[:i]
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:i]
}

// Rank orders processes by total bytes, largest first, and keeps the top n.
// Equal totals are ordered by name.
func Rank(totals map[string]domain.ProcessTraffic, n int) []domain.ProcessTraffic {
	ranked := make([]domain.ProcessTraffic, 0, len(totals))
	for _, t := range totals {
		ranked = append(ranked, t)
	}

	slices.SortFunc(ranked, func(a, b domain.ProcessTraffic) int {
		if c := cmp.Compare(b.TotalBytes(), a.TotalBytes()); c != 0 {
			return c
		}
		return cmp.Compare(a.ProcessName, b.ProcessName)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
