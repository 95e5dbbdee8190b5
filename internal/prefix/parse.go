package prefix

import (
	"strings"
	"unicode"
)

// Kind classifies a raw prefix entry by shape.
type Kind int

const (
	KindMalformed Kind = iota
	KindSingle
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindRange:
		return "range"
	default:
		return "malformed"
	}
}

// Entry is the shape-level parse of one raw prefix token. No address
// validation has happened yet.
type Entry struct {
	Kind    Kind
	Addr    string
	Mask    string
	MaxMask string
	// Text is the entry with all whitespace removed, reassembled from its
	// components when the shape is recognised.
	Text string
}

// Parse strips whitespace from raw and splits it on '/' and '-'. Two
// components form a single prefix, three form a mask range, anything else is
// malformed.
func Parse(raw string) Entry {
	text := stripSpace(raw)
	parts := split(text)

	switch len(parts) {
	case 2:
		return Entry{
			Kind: KindSingle,
			Addr: parts[0],
			Mask: parts[1],
			Text: parts[0] + "/" + parts[1],
		}
	case 3:
		return Entry{
			Kind:    KindRange,
			Addr:    parts[0],
			Mask:    parts[1],
			MaxMask: parts[2],
			Text:    parts[0] + "/" + parts[1] + "-" + parts[2],
		}
	default:
		return Entry{Kind: KindMalformed, Text: text}
	}
}

func isDelimiter(r rune) bool {
	return r == '/' || r == '-'
}

// split keeps empty components so that "10.0.0.0/8-" still counts as a
// three part range and fails address validation rather than shape checks.
func split(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if isDelimiter(r) {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
