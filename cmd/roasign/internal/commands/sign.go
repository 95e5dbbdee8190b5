package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/roasign/internal/pipeline"
	"github.com/wolfeidau/roasign/internal/pki"
)

// SignCmd normalizes the prefixes in a ROA info file, signs the request and
// writes the artifact for submission.
type SignCmd struct {
	ROAInfoFlags `embed:""`

	OutDir       string        `help:"Directory for the signed request file" default:"." type:"existingdir" env:"ROASIGN_OUT_DIR"`
	Signer       string        `help:"Signing backend" enum:"native,openssl" default:"native" env:"ROASIGN_SIGNER"`
	OpenSSL      string        `name:"openssl" help:"openssl binary used by the openssl backend" default:"openssl"`
	SignTimeout  time.Duration `help:"Maximum time to wait for a signature" default:"30s" env:"ROASIGN_SIGN_TIMEOUT"`
	AllowInvalid bool          `help:"Sign the valid prefixes even when some entries are invalid" default:"false"`
}

func (s *SignCmd) Run(ctx context.Context, globals *Globals) error {
	info, err := s.load()
	if err != nil {
		return err
	}
	if err := info.Validate(); err != nil {
		return err
	}

	signer, err := s.newSigner(info.Keyfile)
	if err != nil {
		return err
	}

	gen := &pipeline.Generator{
		Signer:       signer,
		OutputDir:    s.OutDir,
		SignTimeout:  s.SignTimeout,
		AllowPartial: s.AllowInvalid,
	}

	res, err := gen.Generate(ctx, info)
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "number of valid entries: %d\n", res.Valid)
	fmt.Fprintf(out, "number of invalid entries under 'Prefixes': %d\n", len(res.Invalid))
	for _, inv := range res.Invalid {
		fmt.Fprintf(out, "  %s\n", inv)
	}
	fmt.Fprintf(out, "\n%s has been created.\n", res.Path)

	return nil
}

func (s *SignCmd) newSigner(keyfile string) (pki.Signer, error) {
	switch s.Signer {
	case "openssl":
		return pki.NewOpenSSLSigner(keyfile, pki.WithBinary(s.OpenSSL), pki.WithTimeout(s.SignTimeout))
	default:
		signer, err := pki.NewFileSigner(keyfile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("fingerprint", signer.Fingerprint()).Msg("using signing key")
		return signer, nil
	}
}
