// Package config defines the shardtab configuration.
//
//   - spec.go: Config struct definition
//   - default.go: default values, also as a flat koanf map
//   - verify.go: validation
//   - normalize.go: canonical casing and trimming before validation
//   - convert.go: mapping onto the logger, HTTP, router and RESP server configs
//
// Load layers defaults, an optional YAML file and SHARDTAB_ environment
// variables through internal/infra/confloader.
package config
