// Package httputil provides JSON request and response helpers for the
// missiongraph HTTP API.
//
// # Responses
//
// Successful responses are written with [WriteJSON]. Failures are written
// with [WriteError], which maps pkg/errors codes to HTTP status codes and
// renders a stable body:
//
//	{"code": "SELF_DEPENDENCY", "message": "task \"a\" cannot depend on itself"}
//
// Errors without a code are reported as 500 with a generic message so that
// internal details do not leak to clients.
//
// # Requests
//
// [DecodeJSON] reads a bounded request body and rejects unknown fields and
// trailing data with INVALID_INPUT errors.
package httputil
