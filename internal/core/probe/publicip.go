package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"netspeed-monitor/internal/domain"
)

const maxPublicIPBody = 256

// ProbePublicIP asks the echo endpoint once. There is no retry; callers
// re-invoke it when they want a fresh value.
func (p *Prober) ProbePublicIP(ctx context.Context) {
	ip, err := p.publicIP(ctx)
	if err != nil {
		p.log.Debug("probe: public ip failed", "url", p.cfg.PublicIPURL, "error", err)
		ip = domain.PublicIPFailed
	}

	p.update(func(s *domain.NetworkInfoSnapshot) { s.PublicIP = ip })
}

func (p *Prober) publicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.PublicIPURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", domain.ErrNetworkUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPublicIPBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, err)
	}

	raw := strings.TrimSpace(string(body))
	if net.ParseIP(raw) == nil {
		return "", fmt.Errorf("unexpected body %q", raw)
	}

	return raw, nil
}
