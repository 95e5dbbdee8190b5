package pki

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireOpenSSL(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("openssl"); err != nil {
		t.Skip("openssl not installed")
	}
}

func TestOpenSSLSigner_SignAndVerify(t *testing.T) {
	requireOpenSSL(t)

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	key := newRSAKey(t)
	signer, err := NewOpenSSLSigner(writeRSAKeyPKCS1(t, key), WithTimeout(30*time.Second))
	require.NoError(t, err)

	sig, err := signer.Sign(context.Background(), payload)
	require.NoError(t, err)
	require.NoError(t, Verify(&key.PublicKey, payload, sig))

	// RSA PKCS #1 v1.5 is deterministic so both backends agree byte for byte.
	native, err := NewFileSigner(writeRSAKeyPKCS1(t, key))
	require.NoError(t, err)
	nativeSig, err := native.Sign(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, nativeSig, sig)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary signing files must be removed")
}

func TestOpenSSLSigner_BadKey(t *testing.T) {
	requireOpenSSL(t)

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	keyPath := filepath.Join(t.TempDir(), "bad.key")
	require.NoError(t, os.WriteFile(keyPath, []byte("garbage"), 0600))

	signer, err := NewOpenSSLSigner(keyPath)
	require.NoError(t, err)

	_, err = signer.Sign(context.Background(), payload)
	require.ErrorIs(t, err, ErrSigningFailure)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary signing files must be removed on failure")
}

func TestNewOpenSSLSigner_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenSSLSigner(filepath.Join(t.TempDir(), "missing.key"))
		require.ErrorIs(t, err, ErrSigningFailure)
	})

	t.Run("missing binary", func(t *testing.T) {
		keyPath := writeECKey(t, newECKey(t))
		_, err := NewOpenSSLSigner(keyPath, WithBinary(filepath.Join(t.TempDir(), "no-openssl")))
		require.ErrorIs(t, err, ErrSigningFailure)
	})
}
