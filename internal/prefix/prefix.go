// Package prefix normalizes and validates the IP prefixes listed in a ROA
// request. Entries are either a single CIDR block ("10.0.0.0/8") or a CIDR
// block with a maximum mask length ("10.0.0.0/8-24"). IPv6 addresses are
// rendered compressed and upper-cased because the registry parser rejects
// any other form.
package prefix

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Family is the IP address family of a prefix.
type Family int

const (
	FamilyUnknown Family = 0
	IPv4          Family = 4
	IPv6          Family = 6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// Prefix is a validated entry. The zero value is not valid.
type Prefix struct {
	network   netip.Prefix
	maxLength int
	ranged    bool
}

// Network returns the base network.
func (p Prefix) Network() netip.Prefix { return p.network }

// Family returns the address family of the base network.
func (p Prefix) Family() Family { return familyOf(p.network.Addr()) }

// Bits returns the base mask length.
func (p Prefix) Bits() int { return p.network.Bits() }

// MaxLength returns the maximum mask length and whether the entry used the
// range form.
func (p Prefix) MaxLength() (int, bool) { return p.maxLength, p.ranged }

// Address returns the canonical text of the network address.
func (p Prefix) Address() string {
	addr := p.network.Addr().String()
	if p.Family() == IPv6 {
		return strings.ToUpper(addr)
	}
	return addr
}

// String renders the canonical entry, "ADDR/bits" or "ADDR/bits-max".
func (p Prefix) String() string {
	s := p.Address() + "/" + strconv.Itoa(p.Bits())
	if p.ranged {
		s += "-" + strconv.Itoa(p.maxLength)
	}
	return s
}

func familyOf(addr netip.Addr) Family {
	switch {
	case addr.Is4():
		return IPv4
	case addr.Is6():
		return IPv6
	default:
		return FamilyUnknown
	}
}

// parseNetwork validates addr/mask as a strict network: the mask is a plain
// decimal length within the family's bounds and no host bits are set.
func parseNetwork(addr, mask string) (netip.Prefix, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: address %q: %v", ErrInvalidNetwork, addr, err)
	}
	if ip.Zone() != "" {
		return netip.Prefix{}, fmt.Errorf("%w: address %q has a zone", ErrInvalidNetwork, addr)
	}

	bits, err := parseMask(mask, ip.BitLen())
	if err != nil {
		return netip.Prefix{}, err
	}

	network := netip.PrefixFrom(ip, bits)
	if network.Masked().Addr() != ip {
		return netip.Prefix{}, fmt.Errorf("%w: %s/%d has host bits set", ErrInvalidNetwork, addr, bits)
	}

	return network, nil
}

func parseMask(mask string, maxBits int) (int, error) {
	if mask == "" {
		return 0, fmt.Errorf("%w: empty mask", ErrInvalidNetwork)
	}
	for _, r := range mask {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: mask %q is not a decimal length", ErrInvalidNetwork, mask)
		}
	}
	if len(mask) > 1 && mask[0] == '0' {
		return 0, fmt.Errorf("%w: mask %q has leading zeros", ErrInvalidNetwork, mask)
	}

	bits, err := strconv.Atoi(mask)
	if err != nil || bits > maxBits {
		return 0, fmt.Errorf("%w: mask %q out of range 0-%d", ErrInvalidNetwork, mask, maxBits)
	}

	return bits, nil
}
