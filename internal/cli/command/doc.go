// Package command provides CLI command definitions for shardtab.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, configuration and logger setup
//   - bench.go: Concurrent load generator against a sharded set
//   - intern.go: Word interning over files or standard input
//   - serve.go: HTTP intern service with graceful shutdown
//   - version.go: Build information
//
// Commands follow a consistent pattern of parsing flags, running the
// operation, and formatting the result with the selected output format.
package command
