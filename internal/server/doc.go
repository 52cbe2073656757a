// Package server exposes the webinfo tools over HTTP.
//
// Routes:
//
//	GET  /api/ip              lookup response for the caller
//	POST /api/url/encode      percent-encode the request body
//	POST /api/url/decode      percent-decode the request body
//	POST /api/base64/encode   Base64-encode the request body (?variant=url)
//	POST /api/base64/decode   Base64-decode the request body (?variant=url)
//	POST /api/json/format     pretty-print or minify JSON (?mode=pretty|minify)
//	POST /api/json/query      extract a sub-document (?path=...&mode=...)
//	POST /api/hash            digests of the request body (?algo=sha256,md5)
//	GET  /healthz             liveness probe
//	GET  /metrics             Prometheus metrics
//
// Tool endpoints answer {"output": ...} on success and {"error": ...} with
// status 400 when the input cannot be transformed. The caller's IP is taken
// from X-Forwarded-For or X-Real-IP only; /api/ip always answers 200 and
// falls back to a record of Unknown fields when the lookup fails.
//
// Every response carries an X-Request-ID header. A valid UUID supplied by
// the client is echoed back, otherwise a new one is generated.
package server
