package prefix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPrefix indicates the entry did not split into an address/mask
	// or address/mask-maxmask form.
	ErrMalformedPrefix = errors.New("malformed prefix")
	// ErrInvalidNetwork indicates the entry split cleanly but is not a legal
	// network for any supported address family.
	ErrInvalidNetwork = errors.New("invalid network")
	// ErrValidationFailure is matched by a ValidationError.
	ErrValidationFailure = errors.New("prefix validation failed")
)

// InvalidEntry is a rejected entry retained for diagnostics.
type InvalidEntry struct {
	// Raw is the entry text after whitespace removal.
	Raw string
	Err error
}

func (e InvalidEntry) String() string {
	return fmt.Sprintf("%s (%v)", e.Raw, e.Err)
}

// ValidationError reports every invalid entry found in a prefix list.
type ValidationError struct {
	Invalid []InvalidEntry
	Total   int
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d prefixes are invalid:", len(e.Invalid), e.Total)
	for _, inv := range e.Invalid {
		b.WriteString("\n  ")
		b.WriteString(inv.String())
	}
	return b.String()
}

// Is allows errors.Is(err, ErrValidationFailure).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailure
}
