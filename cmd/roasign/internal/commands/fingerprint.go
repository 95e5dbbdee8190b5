package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/roasign/internal/pki"
)

// FingerprintCmd prints the base58 SHA-256 fingerprint of a key so operators
// can confirm which key signed a request.
type FingerprintCmd struct {
	Key string `arg:"" help:"PEM public key, certificate or private key" type:"existingfile"`
}

func (f *FingerprintCmd) Run(ctx context.Context, globals *Globals) error {
	pub, err := pki.LoadPublicKey(f.Key)
	if err != nil {
		return err
	}

	fingerprint, err := pki.Fingerprint(pub)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), fingerprint)
	return nil
}
