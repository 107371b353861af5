// Package main provides the entry point for shardtab.
//
// shardtab exercises the sharded concurrent hash table:
//
//   - bench: concurrent load and read/add/erase mix against a set
//   - intern: intern the words of files and report the table
//   - serve: HTTP intern service with Prometheus metrics
//   - version: build information
//
// Usage:
//
//	shardtab bench --keys 1000000 --workers 8 --hasher xxh3
//	shardtab -o json intern README.md
//	shardtab --config shardtab.yaml serve
//
// Configuration is layered from defaults, the --config YAML file and
// SHARDTAB_ environment variables.
package main
