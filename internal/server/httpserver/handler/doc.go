// Package handler implements the shardtab HTTP API over an intern table.
//
// Every JSON response uses the Response envelope; /metrics is served in the
// Prometheus exposition format instead.
package handler
