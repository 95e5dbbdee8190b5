package prefix

import (
	"fmt"
)

// Result partitions the input entries. len(Valid)+len(Invalid) always equals
// the number of entries given to Normalize.
type Result struct {
	Valid   []Prefix
	Invalid []InvalidEntry
}

// Err returns a *ValidationError when any entry was rejected.
func (r Result) Err() error {
	if len(r.Invalid) == 0 {
		return nil
	}
	return &ValidationError{
		Invalid: r.Invalid,
		Total:   len(r.Valid) + len(r.Invalid),
	}
}

// Strings returns the canonical text of every valid prefix, in input order.
func (r Result) Strings() []string {
	out := make([]string, 0, len(r.Valid))
	for _, p := range r.Valid {
		out = append(out, p.String())
	}
	return out
}

// Duplicates returns the canonical text of valid prefixes that occur more
// than once, each reported once in order of first repetition.
func (r Result) Duplicates() []string {
	seen := make(map[string]int, len(r.Valid))
	var dups []string
	for _, p := range r.Valid {
		s := p.String()
		seen[s]++
		if seen[s] == 2 {
			dups = append(dups, s)
		}
	}
	return dups
}

// Normalize validates every entry and keeps input order in both partitions.
// Duplicates are preserved.
func Normalize(entries []string) Result {
	var res Result
	for _, raw := range entries {
		p, entry, err := normalizeOne(raw)
		if err != nil {
			res.Invalid = append(res.Invalid, InvalidEntry{Raw: entry.Text, Err: err})
			continue
		}
		res.Valid = append(res.Valid, p)
	}
	return res
}

// NormalizeEntry validates a single raw entry.
func NormalizeEntry(raw string) (Prefix, error) {
	p, _, err := normalizeOne(raw)
	return p, err
}

func normalizeOne(raw string) (Prefix, Entry, error) {
	entry := Parse(raw)

	switch entry.Kind {
	case KindSingle:
		network, err := parseNetwork(entry.Addr, entry.Mask)
		if err != nil {
			return Prefix{}, entry, err
		}
		return Prefix{network: network}, entry, nil

	case KindRange:
		p, err := validateRange(entry)
		return p, entry, err

	default:
		return Prefix{}, entry, fmt.Errorf("%w: %q must be address/mask or address/mask-maxmask", ErrMalformedPrefix, entry.Text)
	}
}

// validateRange checks both address/mask and address/maxmask as networks of
// the same family. Either failing rejects the whole entry.
func validateRange(entry Entry) (Prefix, error) {
	base, err := parseNetwork(entry.Addr, entry.Mask)
	if err != nil {
		return Prefix{}, err
	}

	longest, err := parseNetwork(entry.Addr, entry.MaxMask)
	if err != nil {
		return Prefix{}, fmt.Errorf("max length: %w", err)
	}

	if familyOf(base.Addr()) != familyOf(longest.Addr()) {
		return Prefix{}, fmt.Errorf("%w: %s and %s differ in address family", ErrInvalidNetwork, base, longest)
	}
	if longest.Bits() < base.Bits() {
		return Prefix{}, fmt.Errorf("%w: max length %d is shorter than mask %d", ErrInvalidNetwork, longest.Bits(), base.Bits())
	}

	return Prefix{network: base, maxLength: longest.Bits(), ranged: true}, nil
}
