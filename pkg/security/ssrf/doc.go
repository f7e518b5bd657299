// Package ssrf decides whether an outbound URL is safe to dereference.
//
// A Guard combines an immutable Blocklist (CIDR prefixes, hostnames and
// hostname suffixes) with a DNS Resolver. Hostnames are resolved and every
// returned address must be public; any lookup failure or empty answer is a
// rejection. The same Guard also provides a net.Dialer Control hook so the
// address actually connected to is checked again at dial time.
//
// Example usage:
//
//	guard := ssrf.New(ssrf.DefaultBlocklist(), net.DefaultResolver)
//	if err := guard.CheckURL(ctx, u); err != nil {
//	    return err // errors.Is(err, ssrf.ErrBlocked)
//	}
package ssrf
