package middleware

import (
	"net/http"
	"strings"
)

// RegisterGuard rejects requests addressed to another register: this
// process serves exactly one terminal's cart and drawer. Reads
// X-Register-ID OR ?register=; an absent id means the configured register.
func RegisterGuard(registerID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// 1. X-Register-ID header
			requested := strings.TrimSpace(r.Header.Get("X-Register-ID"))

			// 2. register passed as URL param
			if requested == "" {
				requested = r.URL.Query().Get("register")
			}

			// 3. No id -> configured register
			if requested != "" && requested != registerID {
				http.Error(w, "this terminal serves register "+registerID, http.StatusConflict)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
