package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// CLIConfig holds defaults for the diagramgen command. Flags override it.
type CLIConfig struct {
	Generate GenerateConfig `toml:"generate"`
	Loader   LoaderConfig   `toml:"loader"`
}

type GenerateConfig struct {
	Type        string `toml:"type"`
	Output      string `toml:"output"`
	ModelFormat string `toml:"model_format"`
}

type LoaderConfig struct {
	Concurrency int `toml:"concurrency"`
}

func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Generate: GenerateConfig{
			Type: "class",
		},
		Loader: LoaderConfig{
			Concurrency: 8,
		},
	}
}

// LoadCLIConfig decodes path over the defaults. A missing file yields the
// defaults unchanged.
func LoadCLIConfig(path string) (*CLIConfig, error) {
	cfg := DefaultCLIConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultCLIConfig(), nil
		}
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
