// Package buildinfo reports how the shardtab binary was built.
//
// Release builds inject values through ldflags:
//
//	go build -ldflags "-X github.com/yndnr/shardtab/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/shardtab/internal/infra/buildinfo.Commit=abc123"
//
// Fields left unset fall back to the module and VCS metadata the Go
// toolchain embeds in the binary.
package buildinfo
