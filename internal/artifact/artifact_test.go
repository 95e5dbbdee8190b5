package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const line = "1|1753142400|Test|4901|07-22-2025|07-22-2026|2001:DB8::|32||"

func TestFileName(t *testing.T) {
	ts := time.Date(2025, time.July, 2, 9, 5, 0, 0, time.Local)
	require.Equal(t, "Test_02JUL2025-0905.txt", FileName("Test", ts))

	ts = time.Date(2025, time.December, 31, 23, 59, 0, 0, time.Local)
	require.Equal(t, "My ROA_31DEC2025-2359.txt", FileName("My ROA", ts))
}

func TestRender(t *testing.T) {
	sig := EncodeSignature(bytes.Repeat([]byte{0xAB}, 100))

	want := "-----BEGIN ROA REQUEST-----\n" +
		line + "\n" +
		"-----END ROA REQUEST-----\n" +
		"-----BEGIN SIGNATURE-----\n" +
		sig +
		"-----END SIGNATURE-----\n"
	require.Equal(t, want, string(Render(line, sig)))
}

func TestRender_AddsMissingNewline(t *testing.T) {
	out := string(Render(line, "AAAA"))
	require.Contains(t, out, "\nAAAA\n-----END SIGNATURE-----\n")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2025, time.July, 22, 14, 30, 0, 0, time.Local)
	sig := []byte("signature bytes")

	path, err := Write(dir, "Test", ts, line, EncodeSignature(sig))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Test_22JUL2025-1430.txt"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")

	art, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, line, art.RequestLine)
	require.Equal(t, sig, art.Signature)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	ts := time.Now()

	_, err := Write(dir, "Test", ts, line, EncodeSignature([]byte("a")))
	require.NoError(t, err)

	_, err = Write(dir, "Test", ts, line, EncodeSignature([]byte("b")))
	require.ErrorIs(t, err, ErrArtifactExists)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWrite_MissingDir(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "missing"), "Test", time.Now(), line, "AAAA\n")
	require.Error(t, err)
}

func TestEncodeSignature(t *testing.T) {
	t.Run("wraps at 64 columns", func(t *testing.T) {
		enc := EncodeSignature(bytes.Repeat([]byte{0x01}, 256))
		lines := strings.Split(strings.TrimSuffix(enc, "\n"), "\n")
		require.Len(t, lines, 6)
		for _, l := range lines[:5] {
			require.Len(t, l, LineWidth)
		}
		require.True(t, strings.HasSuffix(enc, "\n"))
	})

	t.Run("exact multiple has no blank line", func(t *testing.T) {
		enc := EncodeSignature(bytes.Repeat([]byte{0x01}, 48))
		require.Equal(t, 1, strings.Count(enc, "\n"))
		require.Len(t, strings.TrimSuffix(enc, "\n"), LineWidth)
	})

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "", EncodeSignature(nil))
	})

	t.Run("round trip", func(t *testing.T) {
		sig := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64)
		got, err := DecodeSignature(EncodeSignature(sig))
		require.NoError(t, err)
		require.Equal(t, sig, got)
	})
}

func TestParse_Malformed(t *testing.T) {
	sig := EncodeSignature([]byte("sig"))

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing begin", input: line + "\n"},
		{name: "no request line", input: BeginRequest + "\n" + EndRequest + "\n" + BeginSignature + "\n" + sig + EndSignature + "\n"},
		{name: "two request lines", input: BeginRequest + "\n" + line + "\n" + line + "\n" + EndRequest + "\n" + BeginSignature + "\n" + sig + EndSignature + "\n"},
		{name: "missing signature block", input: BeginRequest + "\n" + line + "\n" + EndRequest + "\n"},
		{name: "truncated signature", input: BeginRequest + "\n" + line + "\n" + EndRequest + "\n" + BeginSignature + "\n" + sig},
		{name: "bad base64", input: BeginRequest + "\n" + line + "\n" + EndRequest + "\n" + BeginSignature + "\n!!!!\n" + EndSignature + "\n"},
		{name: "trailing data", input: string(Render(line, sig)) + "extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformedArtifact)
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	sig := []byte("signature")
	crlf := strings.ReplaceAll(string(Render(line, EncodeSignature(sig))), "\n", "\r\n")

	art, err := Parse(strings.NewReader(crlf))
	require.NoError(t, err)
	require.Equal(t, line, art.RequestLine)
	require.Equal(t, sig, art.Signature)
}
