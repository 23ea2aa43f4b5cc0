// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Translation relay (POST /translate)
//   - Health checks (GET /health)
//   - Prometheus metrics (GET /metrics)
//   - The live translation feed (GET /ws/translations) when configured
//
// Every response carries permissive CORS headers and OPTIONS requests are
// answered with 204 before routing.
package http
