// Package metrics exposes Prometheus collectors for the mock server.
//
// A Metrics value owns its own registry so several servers (and tests) can
// coexist in one process. All recording methods are safe on a nil *Metrics,
// which lets components treat metrics as optional.
//
// # Label Conventions
//
//   - method: upper-case HTTP method (GET, POST, ...)
//   - route: mock, admin, static, metrics
//   - status: numeric HTTP status code
//
// Endpoint IDs and raw request paths are never used as label values.
//
// # Usage
//
//	m := metrics.New()
//	m.ObserveRequest("GET", metrics.RouteMock, 200, elapsed)
//	mux.Handle("GET /metrics", m.Handler())
package metrics
