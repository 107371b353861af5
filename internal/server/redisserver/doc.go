// Package redisserver serves an intern table over the Redis RESP2
// protocol, so that redis-cli and ordinary Redis client libraries can
// intern and look up strings.
//
// Supported commands:
//   - PING, ECHO, QUIT, COMMAND
//   - INTERN, GET, EXISTS, REFS, RELEASE (alias DEL)
//   - DBSIZE, INFO
//
// The codec in resp.go is written against the standard library; Redis
// client libraries only ship the client half of the protocol.
package redisserver
