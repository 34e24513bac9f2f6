package web

import (
	"net/http"

	"github.com/JonMunkholm/textflow/internal/core"
)

// withRequestMetadata adds the client IP and User-Agent to the request
// context. RemoteAddr has already been resolved by TrustedRealIP.
func withRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClient(r.Context(), r.RemoteAddr, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
