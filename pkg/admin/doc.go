// Package admin provides the REST API for managing projects, mock endpoints
// and global settings.
//
// All routes live under /api/admin. Apart from login and health, every route
// requires a bearer token issued by POST /api/admin/login. When no admin
// password is configured the API runs in development mode and is open.
//
// Errors use the shared {"error","message"} body. Storage errors map to
// status codes as follows:
//
//	store.ErrNotFound      404
//	store.ErrAlreadyExists 409
//	store.ErrInvalidID     400
//	validation failure     400 (with per-field details)
//	anything else          500
package admin
