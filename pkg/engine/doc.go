// Package engine serves mock traffic.
//
// A request flows through the router, which dispatches admin, static, metrics
// and mock traffic. Mock requests load the global settings, apply the CORS
// policy, ask the Resolver for the best endpoint and hand the result to the
// response simulator:
//
//	Router -> settings -> CORS -> Resolver (store.Backend) -> Materialize -> wire
//
// The resolver never writes HTTP responses and the simulator never queries
// storage. Backend failures surface as a 500 with a fixed body; an unmatched
// request is a structured 404, not an error.
//
// # Basic Usage
//
//	backend := memory.New()
//	_ = backend.Initialize(ctx)
//
//	srv := engine.NewServer(engine.ServerConfig{Port: 8787}, backend,
//	    engine.WithLogger(log),
//	    engine.WithAdmin(adminAPI),
//	)
//	err := srv.Run(ctx) // blocks until ctx is cancelled
package engine
