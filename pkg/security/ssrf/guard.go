package ssrf

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"syscall"

	"golang.org/x/net/idna"
)

var (
	// ErrInvalidURL indicates the URL is malformed, uses a scheme other than
	// http/https, or embeds credentials.
	ErrInvalidURL = errors.New("invalid url")

	// ErrBlocked indicates the destination resolves to, or names, a blocked target.
	// Resolution failures are reported as ErrBlocked too.
	ErrBlocked = errors.New("destination not allowed")
)

// Resolver resolves a hostname to all of its addresses.
// *net.Resolver satisfies this interface.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Guard checks outbound destinations against a Blocklist.
// It holds no mutable state and is safe for concurrent use.
type Guard struct {
	blocklist *Blocklist
	resolver  Resolver
}

// New creates a Guard. Both arguments are required.
func New(blocklist *Blocklist, resolver Resolver) *Guard {
	return &Guard{blocklist: blocklist, resolver: resolver}
}

// IsSafeHost reports whether host may be contacted.
func (g *Guard) IsSafeHost(ctx context.Context, host string) bool {
	return g.CheckHost(ctx, host) == nil
}

// CheckURL validates the scheme, rejects embedded credentials and then checks the host.
func (g *Guard) CheckURL(ctx context.Context, u *url.URL) error {
	if u == nil {
		return fmt.Errorf("%w: empty url", ErrInvalidURL)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: scheme %q is not allowed", ErrInvalidURL, u.Scheme)
	}
	if u.User != nil {
		return fmt.Errorf("%w: credentials in url are not allowed", ErrInvalidURL)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return g.CheckHost(ctx, u.Hostname())
}

// CheckHost rejects denylisted names and blocked literal addresses, then
// resolves every address of a hostname and rejects if any one is blocked.
// Lookup errors and empty answers fail closed.
func (g *Guard) CheckHost(ctx context.Context, host string) error {
	host = strings.TrimSuffix(strings.Trim(strings.TrimSpace(host), "[]"), ".")
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if g.blocklist.BlocksAddr(addr) {
			return fmt.Errorf("%w: address %s is in a blocked range", ErrBlocked, addr)
		}
		return nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return fmt.Errorf("%w: invalid hostname %q: %v", ErrBlocked, host, err)
	}
	if g.blocklist.BlocksHost(ascii) {
		return fmt.Errorf("%w: host %s is denylisted", ErrBlocked, ascii)
	}

	addrs, err := g.resolver.LookupNetIP(ctx, "ip", ascii)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrBlocked, ascii, err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("%w: %s has no addresses", ErrBlocked, ascii)
	}
	for _, addr := range addrs {
		if g.blocklist.BlocksAddr(addr) {
			return fmt.Errorf("%w: %s resolves to blocked address %s", ErrBlocked, ascii, addr)
		}
	}
	return nil
}

// Control is a net.Dialer Control hook that refuses connections to blocked
// addresses. It closes the gap between CheckHost and the actual dial when DNS
// answers change in between.
func (g *Guard) Control(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: unparseable dial address %q", ErrBlocked, address)
	}
	if g.blocklist.BlocksAddr(ap.Addr()) {
		return fmt.Errorf("%w: dial %s %s", ErrBlocked, network, ap.Addr())
	}
	return nil
}
