package snaptrace

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"snaptrace/rep"
)

// DefaultDepth is the default fan-out ceiling. Three levels is enough
// to inspect the immediate neighborhood of a crash without ballooning
// the snapshot.
const DefaultDepth = 3

// Config controls one engine installation.
type Config struct {
	// Serializer, when set, is tried on every non-chain value before
	// fallback mocking. Restoring its bytes requires the matching
	// Restorer in rep.RebuildOptions; when unset, everything goes
	// through mocks, stubs, and literals and rebuilds anywhere.
	Serializer func(any) ([]byte, error)

	// Depth is the fan-out ceiling; -1 means unlimited.
	Depth int

	// IncludeSource bundles the text of every referenced source file
	// into the snapshot.
	IncludeSource bool

	// Limit bounds chain iteration. Zero picks the engine default.
	Limit int

	// Imports is the explicit safe-to-reference policy. Nil means
	// rep.StdImports.
	Imports *rep.ImportSet
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Depth:         DefaultDepth,
		IncludeSource: true,
	}
}

type fileConfig struct {
	Depth         *int  `toml:"depth"`
	Limit         *int  `toml:"limit"`
	IncludeSource *bool `toml:"include_source"`
}

// LoadConfig reads a TOML config file and applies it over the
// defaults. Only the scalar knobs can come from a file; serializer
// and import policy are code-level choices.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if fc.Depth != nil {
		cfg.Depth = *fc.Depth
	}
	if fc.Limit != nil {
		cfg.Limit = *fc.Limit
	}
	if fc.IncludeSource != nil {
		cfg.IncludeSource = *fc.IncludeSource
	}
	return cfg, nil
}
