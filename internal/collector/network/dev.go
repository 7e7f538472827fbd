package network

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"netspeed-monitor/internal/domain"
)

// netDevFields is the column count of a /proc/net/dev row that carries the
// full receive and transmit statistics.
const netDevFields = 17

type ProcSource struct {
	path string
}

func NewProcSource(path string) *ProcSource {
	if path == "" {
		path = "/proc/net/dev"
	}
	return &ProcSource{path: path}
}

func (s *ProcSource) Interfaces(ctx context.Context) ([]domain.InterfaceSample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseNetDev(f)
}

func parseNetDev(r io.Reader) ([]domain.InterfaceSample, error) {
	var out []domain.InterfaceSample

	scanner := bufio.NewScanner(r)
	// skip headers (first two lines)
	for i := 0; i < 2 && scanner.Scan(); i++ {
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// "eth0:123" happens when the counter is wide enough to eat the space
		line = strings.Replace(line, ":", ": ", 1)

		parts := strings.Fields(line)
		if len(parts) < netDevFields {
			continue
		}

		rx, rxErr := strconv.ParseUint(parts[1], 10, 64)
		tx, txErr := strconv.ParseUint(parts[9], 10, 64)
		if rxErr != nil || txErr != nil {
			continue
		}

		out = append(out, domain.InterfaceSample{
			Name:          strings.TrimSuffix(parts[0], ":"),
			ReceivedBytes: rx,
			SentBytes:     tx,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
