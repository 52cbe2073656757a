package log

import (
	"net/netip"
	"strings"
)

// ipKeys are attribute keys whose values are client addresses.
var ipKeys = map[string]bool{
	"ip":              true,
	"client_ip":       true,
	"remote_addr":     true,
	"x-forwarded-for": true,
	"x-real-ip":       true,
}

// Prefix lengths kept when masking.
const (
	ipv4MaskBits = 24
	ipv6MaskBits = 48
)

// MaskIP reduces an address to its network prefix: 203.0.113.77 becomes
// 203.0.113.0/24 and 2001:db8:1:2::5 becomes 2001:db8:1::/48. A host:port
// pair is masked by its host. Values that are not IP addresses, such as
// "Unknown", are returned unchanged.
func MaskIP(value string) string {
	s := strings.TrimSpace(value)

	addr, err := netip.ParseAddr(s)
	if err != nil {
		ap, perr := netip.ParseAddrPort(s)
		if perr != nil {
			return value
		}
		addr = ap.Addr()
	}
	addr = addr.Unmap()

	bits := ipv6MaskBits
	if addr.Is4() {
		bits = ipv4MaskBits
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return value
	}
	return prefix.String()
}

// MaskIPList masks each entry of a comma separated address list such as an
// X-Forwarded-For header.
func MaskIPList(value string) string {
	if !strings.Contains(value, ",") {
		return MaskIP(value)
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = MaskIP(p)
	}
	return strings.Join(parts, ", ")
}
