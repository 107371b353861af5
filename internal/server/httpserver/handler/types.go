package handler

import (
	"time"

	"github.com/yndnr/shardtab/pkg/cmap"
)

// Error codes carried in Response.Code and the X-Error-Code header.
const (
	CodeOK          = "OK"
	CodeBadRequest  = "ST-ARG-4000"
	CodeNotFound    = "ST-STR-4040"
	CodeRateLimited = "ST-SYS-4290"
	CodeInternal    = "ST-SYS-5000"
)

// Response is the standard API response envelope.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      CodeOK,
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// StringResponse is returned by the /v1/strings endpoints.
type StringResponse struct {
	Value   string `json:"value"`
	Refs    int64  `json:"refs"`
	Created bool   `json:"created,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// StatsResponse is returned by GET /v1/stats.
type StatsResponse struct {
	Strings int          `json:"strings"`
	Shards  cmap.Summary `json:"shards"`
	Uptime  string       `json:"uptime"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
