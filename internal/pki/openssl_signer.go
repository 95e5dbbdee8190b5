package pki

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	consolestream "github.com/wolfeidau/console-stream"
)

// OpenSSLSigner signs by running `openssl dgst -sha256 -sign`. The payload
// and signature pass through a private temporary directory that is removed
// before Sign returns.
type OpenSSLSigner struct {
	keyPath string
	binary  string
	timeout time.Duration
}

// OpenSSLOption configures an OpenSSLSigner.
type OpenSSLOption func(*OpenSSLSigner)

// WithBinary overrides the openssl executable.
func WithBinary(path string) OpenSSLOption {
	return func(s *OpenSSLSigner) { s.binary = path }
}

// WithTimeout bounds a single openssl invocation. Zero means no limit
// beyond the caller's context.
func WithTimeout(d time.Duration) OpenSSLOption {
	return func(s *OpenSSLSigner) { s.timeout = d }
}

// NewOpenSSLSigner returns a signer for the PEM private key at keyPath. The
// key file and the openssl binary must exist; key format errors surface from
// openssl at signing time.
func NewOpenSSLSigner(keyPath string, opts ...OpenSSLOption) (*OpenSSLSigner, error) {
	if _, err := os.Stat(keyPath); err != nil {
		return nil, fmt.Errorf("%w: key file: %w", ErrSigningFailure, err)
	}

	s := &OpenSSLSigner{keyPath: keyPath, binary: "openssl"}
	for _, opt := range opts {
		opt(s)
	}

	binary, err := exec.LookPath(s.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}
	s.binary = binary

	return s, nil
}

// Sign writes payload to a temporary file and signs it with openssl.
func (s *OpenSSLSigner) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "roasign-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temp dir: %w", ErrSigningFailure, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to remove signing temp dir")
		}
	}()

	dataPath := filepath.Join(dir, "roadata.txt")
	sigPath := filepath.Join(dir, "signature")

	if err := os.WriteFile(dataPath, payload, 0600); err != nil {
		return nil, fmt.Errorf("%w: failed to write payload: %w", ErrSigningFailure, err)
	}

	args := []string{"dgst", "-sha256", "-sign", s.keyPath, "-keyform", "PEM", "-out", sigPath, dataPath}

	output, err := s.run(ctx, args)
	if err != nil {
		return nil, err
	}

	sig, err := os.ReadFile(sigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read signature: %w: %s", ErrSigningFailure, err, output)
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("%w: openssl produced an empty signature: %s", ErrSigningFailure, output)
	}

	return sig, nil
}

func (s *OpenSSLSigner) run(ctx context.Context, args []string) (string, error) {
	process := consolestream.NewProcess(s.binary, args,
		consolestream.WithPipeMode(),
		consolestream.WithFlushInterval(100*time.Millisecond),
	)

	var output bytes.Buffer
	for event, err := range process.ExecuteAndStream(ctx) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return output.String(), fmt.Errorf("%w: openssl: %w", ErrSigningFailure, ctxErr)
			}
			return output.String(), fmt.Errorf("%w: openssl: %w", ErrSigningFailure, err)
		}

		switch e := event.Event.(type) {
		case *consolestream.OutputData:
			output.Write(e.Data)
		case *consolestream.ProcessEnd:
			if e.ExitCode != 0 {
				return output.String(), fmt.Errorf("%w: openssl exited with code %d: %s",
					ErrSigningFailure, e.ExitCode, bytes.TrimSpace(output.Bytes()))
			}
			return output.String(), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return output.String(), fmt.Errorf("%w: openssl: %w", ErrSigningFailure, err)
	}
	return output.String(), nil
}
