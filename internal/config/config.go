// Package config loads the ROA info file that describes a single ROA request.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/roasign/internal/roa"
)

// DefaultFile is read when no ROA info path is given.
const DefaultFile = "ROAinfo.yml"

// ROAInfo is the contents of a ROA info file. Key names match the files
// operators already keep for the registry portal.
type ROAInfo struct {
	Version    int      `yaml:"Version"`
	ROAName    string   `yaml:"ROAName"`
	OriginAS   int64    `yaml:"OriginAS"`
	StartDate  string   `yaml:"StartDate"`
	EndDate    string   `yaml:"EndDate"`
	Prefixes   []string `yaml:"Prefixes"`
	Keyfile    string   `yaml:"Keyfile"`
	DateFormat string   `yaml:"DateFormat"`
}

// Load reads and decodes the ROA info file at path. It does not validate.
func Load(path string) (*ROAInfo, error) {
	if path == "" {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open ROA info file: %w", ErrConfiguration, err)
	}
	defer f.Close()

	info, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("prefixes", len(info.Prefixes)).Msg("loaded ROA info")

	return info, nil
}

// Decode reads a single YAML document from r.
func Decode(r io.Reader) (*ROAInfo, error) {
	var info ROAInfo
	if err := yaml.NewDecoder(r).Decode(&info); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: ROA info is empty", ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrConfiguration, err)
	}
	return &info, nil
}

// Layout returns the date layout used to check the validity window.
func (c *ROAInfo) Layout() string {
	if c.DateFormat == "" {
		return roa.DefaultDateLayout
	}
	return c.DateFormat
}

// Validate reports every missing or invalid field at once. The returned error
// matches ErrConfiguration.
func (c *ROAInfo) Validate() error {
	var errs FieldErrors

	if c.Version != 0 && strconv.Itoa(c.Version) != roa.Version {
		errs.Add("Version", fmt.Sprintf("unsupported version %d, only %s is accepted", c.Version, roa.Version))
	}

	switch {
	case strings.TrimSpace(c.ROAName) == "":
		errs.Add("ROAName", "is required")
	case strings.Contains(c.ROAName, roa.Delimiter):
		errs.Add("ROAName", fmt.Sprintf("must not contain %q", roa.Delimiter))
	case strings.ContainsAny(c.ROAName, "/\\\n\r"):
		errs.Add("ROAName", "must not contain path separators or line breaks")
	}

	switch {
	case c.OriginAS <= 0:
		errs.Add("OriginAS", "must be a positive AS number")
	case c.OriginAS > math.MaxUint32:
		errs.Add("OriginAS", "exceeds the 32-bit AS number range")
	}

	if c.StartDate == "" {
		errs.Add("StartDate", "is required")
	}
	if c.EndDate == "" {
		errs.Add("EndDate", "is required")
	}
	if c.StartDate != "" && c.EndDate != "" {
		if err := roa.CheckValidity(c.StartDate, c.EndDate, c.Layout()); err != nil {
			errs.Add("StartDate/EndDate", err.Error())
		}
	}

	if len(c.Prefixes) == 0 {
		errs.Add("Prefixes", "at least one prefix is required")
	}
	if c.Keyfile == "" {
		errs.Add("Keyfile", "is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ASN returns OriginAS as a 32-bit AS number. Call Validate first.
func (c *ROAInfo) ASN() uint32 {
	// #nosec G115 - bounded by Validate
	return uint32(c.OriginAS)
}
