package artifact

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// LineWidth is the column at which encoded signatures wrap, matching
// `openssl enc -base64`.
const LineWidth = 64

// EncodeSignature base64-encodes sig, wrapped at LineWidth with every line
// newline-terminated.
func EncodeSignature(sig []byte) string {
	enc := base64.StdEncoding.EncodeToString(sig)

	var b strings.Builder
	for len(enc) > LineWidth {
		b.WriteString(enc[:LineWidth])
		b.WriteByte('\n')
		enc = enc[LineWidth:]
	}
	if enc != "" {
		b.WriteString(enc)
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeSignature reverses EncodeSignature, ignoring any whitespace.
func DecodeSignature(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	sig, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is not base64: %w", ErrMalformedArtifact, err)
	}
	return sig, nil
}
