package admin

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/store"
)

// Client-facing messages. Internal error text never reaches the client.
const (
	ErrMsgNotFound           = "Resource not found"
	ErrMsgProjectNotFound    = "Project not found"
	ErrMsgEndpointNotFound   = "Endpoint not found"
	ErrMsgConflict           = "Resource already exists"
	ErrMsgInvalidID          = "Invalid id"
	ErrMsgValidationFailed   = "Validation failed"
	ErrMsgStorageUnavailable = "Storage unavailable"
	ErrMsgInternalError      = "An internal error occurred"
	ErrMsgTokenRequired      = "Missing bearer token"
	ErrMsgTokenInvalid       = "Invalid or expired token"
	ErrMsgInvalidPassword    = "Invalid password"
	ErrMsgRouteNotFound      = "Unknown admin route"
	ErrMsgAssetNotFound      = "Asset not found"
	ErrMsgInvalidAssetName   = "Invalid asset name"
	ErrMsgAssetTooLarge      = "Asset exceeds the upload limit"
)

// writeStoreError maps a backend error onto a response. notFound is the
// message used for store.ErrNotFound.
func (a *API) writeStoreError(w http.ResponseWriter, err error, op, notFound string, args ...any) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.WriteNotFound(w, notFound)
	case errors.Is(err, store.ErrAlreadyExists):
		httputil.WriteConflict(w, ErrMsgConflict)
	case errors.Is(err, store.ErrInvalidID):
		httputil.WriteBadRequest(w, ErrMsgInvalidID)
	default:
		a.metrics.StorageError("admin")
		a.log.Error("admin operation failed", append([]any{"operation", op, "error", err}, args...)...)
		if errors.Is(err, store.ErrStorageUnavailable) {
			httputil.WriteInternalError(w, ErrMsgStorageUnavailable)
			return
		}
		httputil.WriteInternalError(w, ErrMsgInternalError)
	}
}

// writeValidationError answers a failed Validate call. Field errors become a
// 400 with details; an internal validation error is a 500.
func (a *API) writeValidationError(w http.ResponseWriter, err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, "Bad Request", ErrMsgValidationFailed, fields)
	case errors.Is(err, matching.ErrMalformedPattern):
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, "Bad Request", ErrMsgValidationFailed,
			map[string]string{"path": err.Error()})
	default:
		var internal validation.InternalError
		if errors.As(err, &internal) {
			a.log.Error("validation failed internally", "error", err)
			httputil.WriteInternalError(w, ErrMsgInternalError)
			return
		}
		httputil.WriteBadRequest(w, err.Error())
	}
}
