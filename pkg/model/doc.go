// Package model defines the entities served and stored by mockapi.
//
// A Project groups Endpoints. An Endpoint pairs an HTTP method and a path
// pattern with a ResponseSpec describing the canned reply. GlobalSettings holds
// the deployment-wide CORS policy and the default response headers.
//
// Values in this package are plain data. Storage backends own the canonical
// copies and hand out independent copies via Clone, so callers may read them
// freely but should not expect writes to be visible to anyone else.
package model
