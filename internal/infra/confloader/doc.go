// Package confloader loads layered configuration with koanf.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//  1. Defaults (a flat map of dotted keys)
//  2. YAML configuration file
//  3. Environment variables (SHARDTAB_SECTION_KEY)
//  4. Overrides, usually command-line flags
//
// A Watcher reports changes to the configuration file so long-running
// commands can reload it.
package confloader
