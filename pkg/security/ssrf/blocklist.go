package ssrf

import (
	"fmt"
	"net/netip"
	"strings"
)

// Blocklist is an immutable set of destinations that must never be contacted.
// Build it once at startup and share it; it is safe for concurrent use.
type Blocklist struct {
	prefixes []netip.Prefix
	hosts    map[string]struct{}
	suffixes []string
}

// defaultCIDRs covers private, loopback, link-local, CGNAT, documentation,
// benchmarking, multicast and reserved ranges for both address families.
// IPv6 transition ranges that carry an embedded IPv4 address (IPv4-compatible,
// NAT64, Teredo, 6to4) are blocked whole, since the embedded address may be
// private.
var defaultCIDRs = []string{
	"0.0.0.0/8",          // "this" network
	"10.0.0.0/8",         // RFC1918
	"100.64.0.0/10",      // CGNAT
	"127.0.0.0/8",        // loopback
	"169.254.0.0/16",     // link-local, cloud metadata
	"172.16.0.0/12",      // RFC1918
	"192.0.0.0/24",       // IETF protocol assignments
	"192.0.2.0/24",       // TEST-NET-1
	"192.88.99.0/24",     // 6to4 relay anycast
	"192.168.0.0/16",     // RFC1918
	"198.18.0.0/15",      // benchmarking
	"198.51.100.0/24",    // TEST-NET-2
	"203.0.113.0/24",     // TEST-NET-3
	"224.0.0.0/4",        // multicast
	"240.0.0.0/4",        // reserved
	"255.255.255.255/32", // broadcast
	"::/96",              // unspecified and IPv4-compatible (::a.b.c.d)
	"::1/128",            // loopback
	"64:ff9b::/96",       // NAT64
	"64:ff9b:1::/48",     // local-use NAT64
	"100::/64",           // discard-only
	"2001::/32",          // Teredo
	"2001:db8::/32",      // documentation
	"2002::/16",          // 6to4
	"fc00::/7",           // unique local
	"fe80::/10",          // link-local
	"fec0::/10",          // site-local (deprecated)
	"ff00::/8",           // multicast
}

var defaultHosts = []string{
	"localhost",
	"localhost.localdomain",
	"ip6-localhost",
	"ip6-loopback",
	"metadata",
	"metadata.google.internal",
	"metadata.azure.internal",
	"instance-data",
	"instance-data.ec2.internal",
}

var defaultSuffixes = []string{
	".localhost",
	".local",
	".internal",
}

// DefaultBlocklist returns the blocklist used in production.
func DefaultBlocklist() *Blocklist {
	bl, err := NewBlocklist(defaultCIDRs, defaultHosts, defaultSuffixes)
	if err != nil {
		panic(err)
	}
	return bl
}

// NewBlocklist builds a Blocklist from CIDR strings, exact hostnames and
// hostname suffixes (e.g. ".internal"). Hostnames are matched case-insensitively.
func NewBlocklist(cidrs, hosts, suffixes []string) (*Blocklist, error) {
	bl := &Blocklist{
		prefixes: make([]netip.Prefix, 0, len(cidrs)),
		hosts:    make(map[string]struct{}, len(hosts)),
		suffixes: make([]string, 0, len(suffixes)),
	}
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("parse blocked prefix %q: %w", c, err)
		}
		bl.prefixes = append(bl.prefixes, p.Masked())
	}
	for _, h := range hosts {
		bl.hosts[normalizeName(h)] = struct{}{}
	}
	for _, s := range suffixes {
		s = normalizeName(s)
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		bl.suffixes = append(bl.suffixes, s)
	}
	return bl, nil
}

// BlocksAddr reports whether addr falls into a blocked prefix.
// IPv4-mapped IPv6 addresses are unmapped first so ::ffff:10.0.0.1 matches 10.0.0.0/8.
func (b *Blocklist) BlocksAddr(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.WithZone("").Unmap()
	for _, p := range b.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// BlocksHost reports whether a hostname is denylisted by exact name or suffix.
func (b *Blocklist) BlocksHost(host string) bool {
	host = normalizeName(host)
	if _, ok := b.hosts[host]; ok {
		return true
	}
	for _, s := range b.suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

func normalizeName(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}
