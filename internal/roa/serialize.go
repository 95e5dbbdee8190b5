package roa

import (
	"strconv"
	"strings"
)

// Serialize renders the request line:
//
//	version|timestamp|name|originAS|start|end|addr|mask|max|addr|mask|max|...
//
// Every prefix contributes exactly three fields; max is empty when the prefix
// has no maximum length. There is no trailing newline, the result is the
// exact payload that gets signed.
func Serialize(r *Request) string {
	var b strings.Builder

	writeField(&b, Version)
	writeField(&b, strconv.FormatInt(r.Timestamp(), 10))
	writeField(&b, r.name)
	writeField(&b, strconv.FormatUint(uint64(r.originAS), 10))
	writeField(&b, r.startDate)
	writeField(&b, r.endDate)

	for _, p := range r.prefixes {
		writeField(&b, p.Address())
		writeField(&b, strconv.Itoa(p.Bits()))
		if max, ok := p.MaxLength(); ok {
			writeField(&b, strconv.Itoa(max))
		} else {
			writeField(&b, "")
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, v string) {
	b.WriteString(v)
	b.WriteString(Delimiter)
}
