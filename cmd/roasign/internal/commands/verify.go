package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/roasign/internal/artifact"
	"github.com/wolfeidau/roasign/internal/pki"
)

// VerifyCmd checks a signed ROA request file against a public key.
type VerifyCmd struct {
	File   string `arg:"" help:"Signed ROA request file" type:"existingfile"`
	Pubkey string `help:"PEM public key, certificate or private key" required:"" type:"existingfile" env:"ROASIGN_PUBKEY"`
}

func (v *VerifyCmd) Run(ctx context.Context, globals *Globals) error {
	art, err := artifact.ReadFile(v.File)
	if err != nil {
		return err
	}

	pub, err := pki.LoadPublicKey(v.Pubkey)
	if err != nil {
		return fmt.Errorf("failed to load public key: %w", err)
	}

	if err := pki.Verify(pub, []byte(art.RequestLine), art.Signature); err != nil {
		return fmt.Errorf("%s: %w", v.File, err)
	}

	fingerprint, err := pki.Fingerprint(pub)
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "signature OK (key %s)\n%s\n", fingerprint, art.RequestLine)
	return nil
}
