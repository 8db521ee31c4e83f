// Package server exposes butterfly graphs over HTTP.
//
// # Routes
//
//	GET /healthz                      liveness and version
//	GET /v1/bitrev/{logn}             bit-reversal permutation as JSON
//	GET /v1/graph/{logn}              butterfly graph as JSON
//	GET /v1/render/{logn}.{format}    rendered artifact (svg, png, pdf, dot, json)
//
// The render route accepts the query parameters viz (butterfly|nodelink),
// width, height, labels, headings, highlight and detailed. Boolean
// parameters that are absent keep the server defaults.
//
// # Errors
//
// Failures are written as JSON:
//
//	{"code": "INVALID_ARGUMENT", "message": "logN must be at most 10, got 12", "request_id": "..."}
//
// The status code comes from [errors.HTTPStatus].
//
// # Request IDs
//
// Every response carries an X-Request-ID header. A client-supplied id is
// kept; otherwise a random UUID is generated. The id is attached to access
// log lines and passed to the observability HTTP hooks.
//
// [errors.HTTPStatus]: github.com/matzehuels/butterfly/pkg/errors.HTTPStatus
package server
