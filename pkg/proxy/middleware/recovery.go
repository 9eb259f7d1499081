package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"fud-buddy/gateway/pkg/proxy"
)

// Recovery converts a handler panic into a 500 response. In production the
// body carries only a generic message; otherwise the panic value and stack
// are included. If the handler already started writing, the connection is
// left as is.
func Recovery(production bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				stack := string(debug.Stack())

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", stack,
				)

				if rw.written {
					return
				}
				if production {
					stack = ""
				}
				_ = proxy.WriteError(rw, proxy.SanitizeError(err, production, stack))
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
