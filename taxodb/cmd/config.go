package cmd

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// buildConfig holds every build option. Flags and the optional TOML file
// both decode into it.
type buildConfig struct {
	DBType     string `toml:"db_type"`
	Fasta      string `toml:"fasta"`
	HeaderSep  string `toml:"header_sep"`
	Names      string `toml:"names"`
	Nodes      string `toml:"nodes"`
	Format     string `toml:"format"`
	UseLineage bool   `toml:"use_lineage"`
	Bdb        string `toml:"bdb"`
	Store      string `toml:"store"`
	Mode       string `toml:"mode"`
	Flatdb     string `toml:"flatdb"`
	Width      int    `toml:"width"`
	Arrow      string `toml:"arrow"`
	Report     string `toml:"report"`
	Verbose    bool   `toml:"verbose"`
	Progress   bool   `toml:"progress"`
	NoColor    bool   `toml:"no_color"`

	config string
}

// applyConfigFile overlays path onto cfg, then restores every flag that was
// given explicitly on the command line.
func applyConfigFile(fs *flag.FlagSet, cfg *buildConfig, path string) error {
	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}

	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("restore -%s: %w", name, err)
		}
	}
	return nil
}
