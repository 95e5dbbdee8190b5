// Package pipeline runs one ROA request generation: validate the ROA info,
// normalize prefixes, build and serialize the request, sign it and write the
// artifact. Nothing is written unless every step succeeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfeidau/roasign/internal/artifact"
	"github.com/wolfeidau/roasign/internal/config"
	"github.com/wolfeidau/roasign/internal/logger"
	"github.com/wolfeidau/roasign/internal/pki"
	"github.com/wolfeidau/roasign/internal/prefix"
	"github.com/wolfeidau/roasign/internal/roa"
)

// DefaultSignTimeout bounds a single signing call.
const DefaultSignTimeout = 30 * time.Second

// Generator produces signed ROA request artifacts.
type Generator struct {
	Signer      pki.Signer
	OutputDir   string
	SignTimeout time.Duration
	// AllowPartial drops invalid prefixes with a warning instead of aborting.
	AllowPartial bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Path        string
	RequestLine string
	Valid       int
	Invalid     []prefix.InvalidEntry
}

// Prepare validates info and builds the request without signing it. The
// generation time is captured here, once.
func (g *Generator) Prepare(ctx context.Context, info *config.ROAInfo) (*roa.Request, prefix.Result, error) {
	if err := info.Validate(); err != nil {
		return nil, prefix.Result{}, err
	}

	res := prefix.Normalize(info.Prefixes)
	log := logger.Ctx(ctx)

	log.Info().
		Int("valid", len(res.Valid)).
		Int("invalid", len(res.Invalid)).
		Msg("normalized prefixes")

	for _, inv := range res.Invalid {
		log.Warn().Str("prefix", inv.Raw).Err(inv.Err).Msg("invalid prefix")
	}
	for _, dup := range res.Duplicates() {
		log.Warn().Str("prefix", dup).Msg("duplicate prefix kept")
	}

	if err := res.Err(); err != nil {
		if !g.AllowPartial || len(res.Valid) == 0 {
			return nil, res, err
		}
		log.Warn().Int("dropped", len(res.Invalid)).Msg("continuing with valid prefixes only")
	}

	req, err := roa.NewRequest(roa.Params{
		Name:        info.ROAName,
		OriginAS:    info.ASN(),
		StartDate:   info.StartDate,
		EndDate:     info.EndDate,
		DateLayout:  info.Layout(),
		Prefixes:    res.Valid,
		GeneratedAt: g.now(),
	})
	if err != nil {
		return nil, res, err
	}

	return req, res, nil
}

// Generate runs the full pipeline and returns the written artifact path.
func (g *Generator) Generate(ctx context.Context, info *config.ROAInfo) (*Result, error) {
	if g.Signer == nil {
		return nil, fmt.Errorf("%w: no signer configured", pki.ErrSigningFailure)
	}

	ctx, runID := logger.WithRun(ctx)
	log := logger.Ctx(ctx)

	req, res, err := g.Prepare(ctx, info)
	if err != nil {
		return nil, err
	}

	line := roa.Serialize(req)
	log.Debug().Str("request", line).Msg("serialized request line")

	sig, err := g.sign(ctx, []byte(line))
	if err != nil {
		return nil, err
	}

	path, err := artifact.Write(g.OutputDir, req.Name(), req.GeneratedAt(), line, artifact.EncodeSignature(sig))
	if err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	log.Info().Str("path", path).Int("prefixes", len(res.Valid)).Msg("signed ROA request created")

	return &Result{
		RunID:       runID,
		Path:        path,
		RequestLine: line,
		Valid:       len(res.Valid),
		Invalid:     res.Invalid,
	}, nil
}

func (g *Generator) sign(ctx context.Context, payload []byte) ([]byte, error) {
	timeout := g.SignTimeout
	if timeout <= 0 {
		timeout = DefaultSignTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	sig, err := g.Signer.Sign(ctx, payload)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Dur("duration", time.Since(started)).Msg("signing failed")
		if !errors.Is(err, pki.ErrSigningFailure) {
			err = fmt.Errorf("%w: %w", pki.ErrSigningFailure, err)
		}
		return nil, err
	}

	logger.Ctx(ctx).Debug().Dur("duration", time.Since(started)).Int("bytes", len(sig)).Msg("request signed")

	return sig, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
