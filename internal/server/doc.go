// Package server hosts the artwork API over HTTP.
//
// Routes:
//   - POST /api/artwork processes artwork for one item and returns the
//     attribute map
//   - DELETE /api/context/{name} forgets the art URLs stored for a context
//   - GET /healthz, /livez and /readyz for probes
//   - GET /version for build information
//   - GET /metrics for Prometheus
//
// Concurrent artwork requests are bounded by a semaphore; a request whose
// client goes away while waiting is answered with 503.
package server
