// Package artifact assembles the signed ROA request file submitted to the
// registry and reads it back for verification.
package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	BeginRequest   = "-----BEGIN ROA REQUEST-----"
	EndRequest     = "-----END ROA REQUEST-----"
	BeginSignature = "-----BEGIN SIGNATURE-----"
	EndSignature   = "-----END SIGNATURE-----"

	// timestampLayout renders as e.g. 22JUL2025-1430 once upper-cased.
	timestampLayout = "02Jan2006-1504"
)

var (
	// ErrArtifactExists is returned instead of overwriting a request file.
	ErrArtifactExists = errors.New("artifact already exists")
	// ErrMalformedArtifact is returned when a file does not have the
	// request/signature block structure.
	ErrMalformedArtifact = errors.New("malformed artifact")
)

// Artifact is the parsed content of a signed request file.
type Artifact struct {
	RequestLine string
	Signature   []byte
}

// FileName returns {name}_{ddMONYYYY-HHMM}.txt for the generation time t.
func FileName(name string, t time.Time) string {
	return name + "_" + strings.ToUpper(t.Format(timestampLayout)) + ".txt"
}

// Render assembles the request line and encoded signature into the block
// format. The encoded signature is inserted as-is; a final newline is added
// only when it is missing.
func Render(line, encodedSig string) []byte {
	var b strings.Builder
	b.WriteString(BeginRequest + "\n")
	b.WriteString(line + "\n")
	b.WriteString(EndRequest + "\n")
	b.WriteString(BeginSignature + "\n")
	b.WriteString(encodedSig)
	if !strings.HasSuffix(encodedSig, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(EndSignature + "\n")
	return []byte(b.String())
}

// Write renders the artifact into dir under FileName(name, t) and returns the
// path. The file is written to a temporary name and renamed into place so a
// failed run never leaves a partial artifact behind.
func Write(dir, name string, t time.Time, line, encodedSig string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(name, t))

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrArtifactExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".roa-request-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", tmpPath).Msg("failed to remove temp artifact")
		}
	}

	if _, err := tmp.Write(Render(line, encodedSig)); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	// #nosec G302 - the request is submitted to the registry, not secret
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to set artifact permissions: %w", err)
	}

	// Link refuses to replace an existing file, unlike Rename.
	if err := os.Link(tmpPath, path); err != nil {
		cleanup()
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrArtifactExists, path)
		}
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}
	cleanup()

	log.Debug().Str("path", path).Msg("artifact written")

	return path, nil
}

// Parse reads an artifact produced by Render.
func Parse(r io.Reader) (*Artifact, error) {
	scanner := bufio.NewScanner(r)

	var (
		lines   []string
		sigText strings.Builder
		state   int
	)

	const (
		expectBegin = iota
		inRequest
		expectSigBegin
		inSignature
		done
	)

	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")

		switch state {
		case expectBegin:
			if text == "" {
				continue
			}
			if text != BeginRequest {
				return nil, fmt.Errorf("%w: expected %s", ErrMalformedArtifact, BeginRequest)
			}
			state = inRequest
		case inRequest:
			if text == EndRequest {
				state = expectSigBegin
				continue
			}
			lines = append(lines, text)
		case expectSigBegin:
			if text != BeginSignature {
				return nil, fmt.Errorf("%w: expected %s", ErrMalformedArtifact, BeginSignature)
			}
			state = inSignature
		case inSignature:
			if text == EndSignature {
				state = done
				continue
			}
			sigText.WriteString(text)
		case done:
			if text != "" {
				return nil, fmt.Errorf("%w: trailing data after %s", ErrMalformedArtifact, EndSignature)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	if state != done {
		return nil, fmt.Errorf("%w: truncated", ErrMalformedArtifact)
	}
	if len(lines) != 1 || lines[0] == "" {
		return nil, fmt.Errorf("%w: expected exactly one request line, found %d", ErrMalformedArtifact, len(lines))
	}

	sig, err := DecodeSignature(sigText.String())
	if err != nil {
		return nil, err
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("%w: empty signature", ErrMalformedArtifact)
	}

	return &Artifact{RequestLine: lines[0], Signature: sig}, nil
}

// ReadFile parses the artifact at path.
func ReadFile(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
