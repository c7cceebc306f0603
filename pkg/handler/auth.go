package handler

import (
	"crypto/subtle"
	"net/http"
)

// basicAuth wraps a handler with HTTP basic authentication against the
// configured admin credentials. When authentication is disabled every
// request passes.
func (r Routing) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.auth.Disabled {
			next.ServeHTTP(w, req)
			return
		}

		username, password, ok := req.BasicAuth()
		if !ok || !credentialsMatch(username, r.auth.Username) || !credentialsMatch(password, r.auth.Password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="acct-manager"`)
			http.Error(w, "not authorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func credentialsMatch(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
