package roa

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/roasign/internal/prefix"
)

func mustPrefixes(t *testing.T, entries ...string) []prefix.Prefix {
	t.Helper()
	res := prefix.Normalize(entries)
	require.NoError(t, res.Err())
	return res.Valid
}

func validParams(t *testing.T) Params {
	return Params{
		Name:        "Test",
		OriginAS:    4901,
		StartDate:   "07-22-2025",
		EndDate:     "07-22-2026",
		Prefixes:    mustPrefixes(t, "2001:0DB8::/32"),
		GeneratedAt: time.Unix(1753142400, 0),
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(validParams(t))
	require.NoError(t, err)
	require.Equal(t, "Test", req.Name())
	require.Equal(t, uint32(4901), req.OriginAS())
	require.Equal(t, "07-22-2025", req.StartDate())
	require.Equal(t, "07-22-2026", req.EndDate())
	require.Equal(t, int64(1753142400), req.Timestamp())
	require.Len(t, req.Prefixes(), 1)
}

func TestNewRequest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "empty name", mutate: func(p *Params) { p.Name = "" }},
		{name: "name with delimiter", mutate: func(p *Params) { p.Name = "a|b" }},
		{name: "zero origin AS", mutate: func(p *Params) { p.OriginAS = 0 }},
		{name: "no prefixes", mutate: func(p *Params) { p.Prefixes = nil }},
		{name: "no generation time", mutate: func(p *Params) { p.GeneratedAt = time.Time{} }},
		{name: "start equals end", mutate: func(p *Params) { p.EndDate = p.StartDate }},
		{name: "start after end", mutate: func(p *Params) { p.StartDate, p.EndDate = p.EndDate, p.StartDate }},
		{name: "unparseable start", mutate: func(p *Params) { p.StartDate = "2025-07-22" }},
		{name: "unparseable end", mutate: func(p *Params) { p.EndDate = "tomorrow" }},
		{name: "date with delimiter", mutate: func(p *Params) { p.EndDate = "07-22-2026|x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(t)
			tt.mutate(&p)
			_, err := NewRequest(p)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestNewRequest_CustomDateLayout(t *testing.T) {
	p := validParams(t)
	p.DateLayout = "2006-01-02"
	p.StartDate = "2025-07-22"
	p.EndDate = "2026-07-22"

	req, err := NewRequest(p)
	require.NoError(t, err)
	require.Equal(t, "2025-07-22", req.StartDate())
}

func TestRequest_IsImmutable(t *testing.T) {
	p := validParams(t)
	req, err := NewRequest(p)
	require.NoError(t, err)

	p.Prefixes[0] = mustPrefixes(t, "10.0.0.0/8")[0]
	got := req.Prefixes()
	require.Equal(t, "2001:DB8::/32", got[0].String())

	got[0] = mustPrefixes(t, "10.0.0.0/8")[0]
	require.Equal(t, "2001:DB8::/32", req.Prefixes()[0].String())
}

func TestSerialize_EndToEnd(t *testing.T) {
	req, err := NewRequest(validParams(t))
	require.NoError(t, err)

	require.Equal(t, "1|1753142400|Test|4901|07-22-2025|07-22-2026|2001:DB8::|32||", Serialize(req))
}

func TestSerialize_MixedFamilies(t *testing.T) {
	now := time.Now()
	p := validParams(t)
	p.Name = "multipleROA"
	p.Prefixes = mustPrefixes(t, "10.0.0.0/8", "2620:106:c00f:fd00::/64")
	p.GeneratedAt = now

	req, err := NewRequest(p)
	require.NoError(t, err)

	ts := strconv.FormatInt(now.Unix(), 10)
	want := "1|" + ts + "|multipleROA|4901|07-22-2025|07-22-2026|10.0.0.0|8||2620:106:C00F:FD00::|64||"
	require.Equal(t, want, Serialize(req))
}

func TestSerialize_MaxLengthField(t *testing.T) {
	p := validParams(t)
	p.Prefixes = mustPrefixes(t, "172.16.0.0/16-18", "10.0.0.0/8", "2620:0106:C000::/44-48")

	req, err := NewRequest(p)
	require.NoError(t, err)

	want := "1|1753142400|Test|4901|07-22-2025|07-22-2026|" +
		"172.16.0.0|16|18|" +
		"10.0.0.0|8||" +
		"2620:106:C000::|44|48|"
	require.Equal(t, want, Serialize(req))
}

func TestSerialize_PreservesDuplicates(t *testing.T) {
	p := validParams(t)
	p.Prefixes = mustPrefixes(t, "10.0.0.0/8", "10.0.0.0/8")

	req, err := NewRequest(p)
	require.NoError(t, err)
	require.Equal(t, "1|1753142400|Test|4901|07-22-2025|07-22-2026|10.0.0.0|8||10.0.0.0|8||", Serialize(req))
}
