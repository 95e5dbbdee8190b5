package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/roasign/cmd/roasign/internal/commands"
	"github.com/wolfeidau/roasign/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Sign        commands.SignCmd        `cmd:"" default:"withargs" help:"Generate a signed ROA request"`
		Validate    commands.ValidateCmd    `cmd:"" help:"Normalize and validate prefixes without signing"`
		Verify      commands.VerifyCmd      `cmd:"" help:"Verify the signature of a ROA request file"`
		Fingerprint commands.FingerprintCmd `cmd:"" help:"Print the fingerprint of a key"`
		Debug       bool                    `help:"Enable debug mode."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("roasign"),
		kong.Description("Generate signed Route Origin Authorization requests for manual registry submission."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
