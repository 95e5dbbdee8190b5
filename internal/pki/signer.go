package pki

import (
	"context"
	"errors"
)

// ErrSigningFailure wraps every error returned by a Signer.
var ErrSigningFailure = errors.New("signing failed")

// ErrUnsupportedKey is returned for key material that cannot produce a
// SHA-256 detached signature.
var ErrUnsupportedKey = errors.New("unsupported key format")

// Signer produces a detached signature over the SHA-256 digest of a payload.
// Implementations include FileSigner (native crypto) and OpenSSLSigner
// (shells out to the openssl binary).
type Signer interface {
	// Sign returns the raw binary signature over payload. The payload is
	// signed exactly as given.
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}
