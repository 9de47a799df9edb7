package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

// Recoverer converts a handler panic into a 500 envelope. http.ErrAbortHandler is
// re-raised so the server can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
				ctx := logg.WithFields(r.Context(), map[string]any{
					"method":    r.Method,
					"path":      r.URL.Path,
					"recovered": true,
				})
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "handler panicked"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
