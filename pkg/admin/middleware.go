package admin

import (
	"net/http"
	"strings"

	"github.com/getmockd/mockapi/pkg/httputil"
)

// requireAuth rejects requests without a valid bearer token. It is a no-op in
// development mode.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.auth.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			httputil.WriteUnauthorized(w, ErrMsgTokenRequired)
			return
		}
		if err := a.auth.Validate(token); err != nil {
			a.log.Debug("rejected admin token", "path", r.URL.Path, "error", err)
			httputil.WriteUnauthorized(w, ErrMsgTokenInvalid)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(auth, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
