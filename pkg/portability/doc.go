// Package portability moves mockapi data in and out of a store.Backend as a
// portable fixture document.
//
// A fixture holds global settings, projects and endpoints. It is written as
// YAML by default, or JSON when the file name ends in .json. Response bodies
// are ordinary YAML/JSON values in the document and are stored as raw JSON.
//
//	version: "1.0"
//	kind: MockFixture
//	projects:
//	  - id: shop
//	    name: Shop
//	endpoints:
//	  - projectId: shop
//	    method: GET
//	    path: /users/:id
//	    response:
//	      status: 200
//	      body: {id: 1, name: Ada}
//
// Import applies a fixture to a backend entry by entry and aggregates the
// failures; Export reads a backend back into a fixture.
package portability
