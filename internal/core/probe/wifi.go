package probe

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/domain"
)

const defaultWirelessPath = "/proc/net/wireless"

// ProbeWifi is best-effort: anything the platform refuses leaves both fields
// absent.
func (p *Prober) ProbeWifi(ctx context.Context) {
	ssid, signal := p.wifiInfo(ctx)
	p.update(func(s *domain.NetworkInfoSnapshot) {
		s.WifiSSID = ssid
		s.WifiSignal = signal
	})
}

func (p *Prober) wifiInfo(ctx context.Context) (ssid, signal *string) {
	switch p.goos {
	case "linux":
		out, err := p.runner.Run(ctx, "iwgetid", "-r")
		name := firstLine(out)
		if err != nil || name == "" {
			p.log.Debug("probe: wifi ssid unavailable", "error", err)
			return nil, nil
		}

		level, err := ReadWirelessLevel(p.wireless)
		if err != nil {
			p.log.Debug("probe: wifi signal unavailable", "error", err)
			return &name, nil
		}
		return &name, &level

	case "darwin":
		out, err := p.runner.Run(ctx, "networksetup", "-getairportnetwork", p.cfg.PrimaryInterface)
		name, ok := parseAirportNetwork(out)
		if err != nil || !ok {
			p.log.Debug("probe: wifi ssid unavailable", "error", err)
			return nil, nil
		}
		return &name, nil
	}

	return nil, nil
}

func firstLine(out string) string {
	lines := command.Lines(out)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// parseAirportNetwork reads "Current Wi-Fi Network: <ssid>".
func parseAirportNetwork(out string) (string, bool) {
	_, name, ok := strings.Cut(firstLine(out), "Network: ")
	name = strings.TrimSpace(name)
	return name, ok && name != ""
}

// ReadWirelessLevel returns the signal level of the first wireless interface
// listed in a /proc/net/wireless style file, formatted as "-NN dBm".
func ReadWirelessLevel(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan(); i++ {
		if i < 2 {
			continue
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		level := strings.TrimSuffix(fields[3], ".")
		if level == "" {
			continue
		}
		return level + " dBm", nil
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no wireless interface")
}
