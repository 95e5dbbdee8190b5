package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/roasign/internal/pipeline"
	"github.com/wolfeidau/roasign/internal/roa"
)

// ValidateCmd reports how the prefixes in a ROA info file normalize and
// prints the request line that would be signed.
type ValidateCmd struct {
	ROAInfoFlags `embed:""`
}

func (v *ValidateCmd) Run(ctx context.Context, globals *Globals) error {
	info, err := v.load()
	if err != nil {
		return err
	}

	out := globals.out()

	gen := &pipeline.Generator{Now: time.Now}
	req, res, err := gen.Prepare(ctx, info)

	for _, p := range res.Valid {
		fmt.Fprintf(out, "valid    %s\n", p)
	}
	for _, inv := range res.Invalid {
		fmt.Fprintf(out, "invalid  %s\n", inv)
	}
	for _, dup := range res.Duplicates() {
		fmt.Fprintf(out, "duplicate %s\n", dup)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", roa.Serialize(req))
	return nil
}
