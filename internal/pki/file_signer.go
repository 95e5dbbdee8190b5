package pki

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// FileSigner signs with a PEM-encoded RSA or ECDSA private key read from a
// file. Signatures match `openssl dgst -sha256 -sign`: PKCS #1 v1.5 for RSA
// and ASN.1 DER for ECDSA.
type FileSigner struct {
	key         crypto.Signer
	fingerprint string
}

// NewFileSigner loads the private key at keyPath.
func NewFileSigner(keyPath string) (*FileSigner, error) {
	key, err := LoadPrivateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	fingerprint, err := Fingerprint(key.Public())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	log.Debug().Str("keyfile", keyPath).Str("fingerprint", fingerprint).Msg("loaded signing key")

	return &FileSigner{key: key, fingerprint: fingerprint}, nil
}

// Fingerprint returns the base58 fingerprint of the signing key.
func (s *FileSigner) Fingerprint() string {
	return s.fingerprint
}

// Public returns the public half of the signing key.
func (s *FileSigner) Public() crypto.PublicKey {
	return s.key.Public()
}

// Sign hashes payload with SHA-256 and signs the digest.
func (s *FileSigner) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	digest := sha256.Sum256(payload)

	var (
		sig []byte
		err error
	)
	switch key := s.key.(type) {
	case *rsa.PrivateKey:
		sig, err = rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	case *ecdsa.PrivateKey:
		sig, err = ecdsa.SignASN1(rand.Reader, key, digest[:])
	default:
		return nil, fmt.Errorf("%w: %w: %T", ErrSigningFailure, ErrUnsupportedKey, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	return sig, nil
}
