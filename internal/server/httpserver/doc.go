// Package httpserver exposes an intern table over HTTP.
//
// Routes:
//
//   - PUT, GET and DELETE /v1/strings/{value}: intern, look up, release
//   - GET /v1/stats: shard summary of the table
//   - GET /health and GET /metrics
//
// Every request passes through Recover, RequestID, an optional per-client
// RateLimit and AccessLog, in that order.
package httpserver
