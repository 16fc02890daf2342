package engine

import (
	"net/http"
	"slices"
	"strings"

	"github.com/getmockd/mockapi/pkg/model"
)

const wildcardOrigin = "*"

// Admin CORS is fixed and permissive; it does not follow GlobalSettings.
var (
	adminCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	adminCORSHeaders = []string{"Content-Type", "Authorization"}
)

// AllowOrigin decides the Access-Control-Allow-Origin value for origin.
// A wildcard entry allows everything and yields "*"; an exact entry echoes the
// origin. An absent Origin header is treated as "*".
func AllowOrigin(settings *model.GlobalSettings, origin string) (string, bool) {
	if settings == nil {
		return "", false
	}
	if slices.Contains(settings.CORSOrigins, wildcardOrigin) {
		return wildcardOrigin, true
	}
	if origin == "" {
		origin = wildcardOrigin
	}
	if slices.Contains(settings.CORSOrigins, origin) {
		return origin, true
	}
	return "", false
}

// ApplyCORS sets the CORS response headers when origin is allowed and reports
// whether it was. A disallowed origin gets no CORS headers at all.
func ApplyCORS(h http.Header, settings *model.GlobalSettings, origin string) bool {
	allowed, ok := AllowOrigin(settings, origin)
	if !ok {
		return false
	}
	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", strings.Join(settings.CORSMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(settings.CORSHeaders, ", "))
	if allowed != wildcardOrigin {
		h.Add("Vary", "Origin")
	}
	return true
}

// AdminCORS wraps the admin API with the fixed permissive policy and answers
// preflight requests itself.
func AdminCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", wildcardOrigin)
		h.Set("Access-Control-Allow-Methods", strings.Join(adminCORSMethods, ", "))
		h.Set("Access-Control-Allow-Headers", strings.Join(adminCORSHeaders, ", "))
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
