package commands

import (
	"io"
	"os"

	"github.com/wolfeidau/roasign/internal/config"
)

type Globals struct {
	Debug   bool
	Version string
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// ROAInfoFlags are shared by commands that read a ROA info file. Flags take
// precedence over values in the file.
type ROAInfoFlags struct {
	ROAInfo   string `short:"r" name:"roa-info" help:"ROA info YAML file" default:"ROAinfo.yml" type:"path" env:"ROASIGN_ROA_INFO"`
	Name      string `name:"name" help:"Override ROAName"`
	OriginAS  int64  `name:"origin-as" help:"Override OriginAS"`
	StartDate string `name:"start-date" help:"Override StartDate"`
	EndDate   string `name:"end-date" help:"Override EndDate"`
	Keyfile   string `name:"keyfile" help:"Override Keyfile" type:"path" env:"ROASIGN_KEYFILE"`
}

func (f *ROAInfoFlags) load() (*config.ROAInfo, error) {
	path := f.ROAInfo
	if path == "" {
		path = config.DefaultFile
	}

	info, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if f.Name != "" {
		info.ROAName = f.Name
	}
	if f.OriginAS != 0 {
		info.OriginAS = f.OriginAS
	}
	if f.StartDate != "" {
		info.StartDate = f.StartDate
	}
	if f.EndDate != "" {
		info.EndDate = f.EndDate
	}
	if f.Keyfile != "" {
		info.Keyfile = f.Keyfile
	}

	return info, nil
}
