package config

import "strings"

// Normalize returns a copy of cfg with enum-like fields trimmed and lower
// cased, so that "INFO" and " info " both pass Verify.
func Normalize(cfg *Config) *Config {
	normalized := *cfg

	normalized.Server.Addr = strings.TrimSpace(normalized.Server.Addr)
	normalized.Redis.Addr = strings.TrimSpace(normalized.Redis.Addr)
	normalized.Log.Level = canonical(normalized.Log.Level)
	normalized.Log.Format = canonical(normalized.Log.Format)
	normalized.Bench.Hasher = canonical(normalized.Bench.Hasher)
	normalized.Bench.KeyKind = canonical(normalized.Bench.KeyKind)

	return &normalized
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
