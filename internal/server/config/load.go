package config

import (
	"github.com/yndnr/shardtab/internal/infra/confloader"
)

// Load reads the configuration from defaults, the optional YAML file at
// path and SHARDTAB_ environment variables, then applies overrides (for
// example command line flags). The result is normalized and verified.
func Load(path string, overrides map[string]any) (*Config, error) {
	opts := []confloader.Option{confloader.WithDefaults(DefaultMap())}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if len(overrides) > 0 {
		opts = append(opts, confloader.WithOverrides(overrides))
	}

	var cfg Config
	if err := confloader.NewLoader(opts...).Load(&cfg); err != nil {
		return nil, err
	}

	normalized := Normalize(&cfg)
	if err := Verify(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
