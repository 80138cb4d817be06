package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// Header carries the request id on both request and response.
const Header = "X-Request-ID"

type contextKey struct{}

// RequestID assigns each request a sortable unique id, honoring an id the
// client already sent. The id rides the context for log correlation and is
// echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(Header, id)
		ctx := context.WithValue(r.Context(), contextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request id, or "" outside the middleware chain.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
