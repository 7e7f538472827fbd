// Package pkg
package pkg

import "fmt"

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatBytes renders b with a six character numeric field and a two
// character unit field, so labels of successive updates keep the same width.
func FormatBytes(b uint64) string {
	v := float64(b)

	switch {
	case b < kib:
		return fmt.Sprintf("%6.0f B ", v)
	case b < mib:
		return fmt.Sprintf("%6.1f KB", v/kib)
	case b < gib:
		return fmt.Sprintf("%6.1f MB", v/mib)
	default:
		return fmt.Sprintf("%6.2f GB", v/gib)
	}
}

// FormatRate is the compact per-second variant used for process rows.
func FormatRate(b uint64) string {
	v := float64(b)

	switch {
	case b < kib:
		return fmt.Sprintf("%.0f B/s", v)
	case b < mib:
		return fmt.Sprintf("%.1f KB/s", v/kib)
	case b < gib:
		return fmt.Sprintf("%.1f MB/s", v/mib)
	default:
		return fmt.Sprintf("%.2f GB/s", v/gib)
	}
}

func FormatSpeed(b uint64) string {
	return FormatBytes(b) + "/s"
}
