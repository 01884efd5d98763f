package engine

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the small set of values the UCI front-end reports or
// uses at startup. Any field left unset after loading keeps its
// DefaultConfig value.
type Config struct {
	EngineName      string `toml:"engine_name"`
	EngineAuthor    string `toml:"engine_author"`
	DefaultMaxDepth int    `toml:"default_max_depth"`
}

// DefaultConfig is used when no config file is present or a field is
// absent from it.
var DefaultConfig = Config{
	EngineName:      "chessy",
	EngineAuthor:    "chessy contributors",
	DefaultMaxDepth: 99,
}

// LoadConfig reads a TOML config file at path, overlaying its fields
// onto DefaultConfig. A missing file is not an error: it returns
// DefaultConfig unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
