// Package roa builds the Route Origin Authorization request and serializes it
// into the pipe-delimited line that gets signed.
package roa

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfeidau/roasign/internal/prefix"
)

const (
	// Version is the only request format version the registry accepts.
	Version = "1"

	// Delimiter separates fields in the request line.
	Delimiter = "|"

	// DefaultDateLayout is MM-DD-YYYY, the format used by the registry.
	DefaultDateLayout = "01-02-2006"
)

// ErrInvalidRequest is returned when the request aggregate fails its own
// invariants.
var ErrInvalidRequest = errors.New("invalid ROA request")

// Params are the inputs to NewRequest.
type Params struct {
	Name        string
	OriginAS    uint32
	StartDate   string
	EndDate     string
	DateLayout  string
	Prefixes    []prefix.Prefix
	GeneratedAt time.Time
}

// Request is an immutable ROA request. Build one with NewRequest.
type Request struct {
	name        string
	originAS    uint32
	startDate   string
	endDate     string
	prefixes    []prefix.Prefix
	generatedAt time.Time
}

// NewRequest validates params and captures the generation time. Dates are
// kept verbatim; DateLayout is only used to check that start precedes end.
func NewRequest(p Params) (*Request, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidRequest)
	}
	if strings.Contains(p.Name, Delimiter) {
		return nil, fmt.Errorf("%w: name %q contains %q", ErrInvalidRequest, p.Name, Delimiter)
	}
	if p.OriginAS == 0 {
		return nil, fmt.Errorf("%w: origin AS must be positive", ErrInvalidRequest)
	}
	if len(p.Prefixes) == 0 {
		return nil, fmt.Errorf("%w: no prefixes", ErrInvalidRequest)
	}
	if p.GeneratedAt.IsZero() {
		return nil, fmt.Errorf("%w: generation time not set", ErrInvalidRequest)
	}

	layout := p.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	if err := CheckValidity(p.StartDate, p.EndDate, layout); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	prefixes := make([]prefix.Prefix, len(p.Prefixes))
	copy(prefixes, p.Prefixes)

	return &Request{
		name:        p.Name,
		originAS:    p.OriginAS,
		startDate:   p.StartDate,
		endDate:     p.EndDate,
		prefixes:    prefixes,
		generatedAt: p.GeneratedAt,
	}, nil
}

// CheckValidity parses both dates with layout and requires start < end.
func CheckValidity(start, end, layout string) error {
	if strings.Contains(start, Delimiter) || strings.Contains(end, Delimiter) {
		return fmt.Errorf("validity dates must not contain %q", Delimiter)
	}
	from, err := time.Parse(layout, start)
	if err != nil {
		return fmt.Errorf("start date %q: %w", start, err)
	}
	to, err := time.Parse(layout, end)
	if err != nil {
		return fmt.Errorf("end date %q: %w", end, err)
	}
	if !from.Before(to) {
		return fmt.Errorf("start date %s is not before end date %s", start, end)
	}
	return nil
}

// Name returns the ROA name.
func (r *Request) Name() string { return r.name }

func (r *Request) OriginAS() uint32 { return r.originAS }

func (r *Request) StartDate() string { return r.startDate }

func (r *Request) EndDate() string { return r.endDate }

func (r *Request) GeneratedAt() time.Time { return r.generatedAt }

// Timestamp is the generation time in seconds since the Unix epoch.
func (r *Request) Timestamp() int64 { return r.generatedAt.Unix() }

// Prefixes returns a copy of the ordered prefix list.
func (r *Request) Prefixes() []prefix.Prefix {
	return append([]prefix.Prefix(nil), r.prefixes...)
}
