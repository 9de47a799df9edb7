package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/pokeshop-api/pkg/metrics"
)

// Metrics records request counts and latency per matched route pattern. A panicking
// handler is counted as a 500 and the panic is passed on to Recoverer.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			m.Started()
			defer func() {
				status := rec.Status()
				p := recover()
				if p != nil {
					status = http.StatusInternalServerError
				}
				// unmatched requests share one label
				m.Observe(r.Method, matchedPattern(r), status, time.Since(start))
				if p != nil {
					panic(p)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
