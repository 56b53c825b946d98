// Package httputil provides HTTP helpers shared by the coral API server.
//
// # Responses
//
// [WriteJSON] encodes a value with the given status. [WriteError] maps an
// error to a status using its [errs.Code] and writes the JSON body
//
//	{"code": "INVALID_LIMIT", "message": "limit must not be negative, got -1"}
//
// INVALID_* codes become 400, NOT_FOUND codes 404, and everything else 500.
// Messages of 500 responses are replaced with a generic text so internal
// details do not leak.
//
// # Middleware
//
// [Logger] logs one line per request through charmbracelet/log and reports
// the request to the registered [observability.HTTPHooks].
package httputil
