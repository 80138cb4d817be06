package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/respond"
)

// Recoverer converts a handler panic into a server-generated error envelope
// instead of tearing down the connection. The stack goes to the log, never
// to the client.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					respond.ServerFailure(w, http.StatusInternalServerError,
						apperror.Wrap(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
