package probe

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/jackpal/gateway"
	psnet "github.com/shirou/gopsutil/v3/net"

	"netspeed-monitor/internal/domain"
)

// PrimaryInterfaceAuto selects the interface holding the default route.
const PrimaryInterfaceAuto = "auto"

// AddrLookup returns the addresses bound to one interface, in the CIDR or
// bare form the OS reports them.
type AddrLookup func(ctx context.Context, iface string) ([]string, error)

// GatewayLookup returns the local address of the default-route interface.
type GatewayLookup func() (net.IP, error)

func gopsutilAddrs(ctx context.Context, iface string) ([]string, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIOUnavailable, err)
	}

	for _, s := range stats {
		if s.Name != iface {
			continue
		}
		out := make([]string, 0, len(s.Addrs))
		for _, a := range s.Addrs {
			out = append(out, a.Addr)
		}
		return out, nil
	}

	return nil, fmt.Errorf("interface %s not found", iface)
}

func discoverGateway() (net.IP, error) {
	return gateway.DiscoverInterface()
}

func (p *Prober) ProbeLocalIP(ctx context.Context) {
	ip, err := p.localIP(ctx)
	if err != nil {
		p.log.Debug("probe: local ip unresolved", "interface", p.cfg.PrimaryInterface, "error", err)
		ip = domain.LocalIPUnresolved
	}

	p.update(func(s *domain.NetworkInfoSnapshot) { s.LocalIP = ip })
}

func (p *Prober) localIP(ctx context.Context) (string, error) {
	if p.cfg.PrimaryInterface == PrimaryInterfaceAuto {
		ip, err := p.gateway()
		if err != nil {
			return "", err
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
		return "", fmt.Errorf("default route interface has no ipv4 address: %s", ip)
	}

	addrs, err := p.addrs(ctx, p.cfg.PrimaryInterface)
	if err != nil {
		return "", err
	}
	if ip := FirstIPv4(addrs); ip != "" {
		return ip, nil
	}
	return "", fmt.Errorf("no ipv4 address on %s", p.cfg.PrimaryInterface)
}

// FirstIPv4 picks the first IPv4 address out of a list of "a.b.c.d/nn" or
// bare addresses.
func FirstIPv4(addrs []string) string {
	for _, a := range addrs {
		host, _, _ := strings.Cut(a, "/")
		ip := net.ParseIP(host)
		if ip == nil {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}
