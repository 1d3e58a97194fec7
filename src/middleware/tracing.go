package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"schoolapi/src/errlog"
)

// Tracing ensures every request carries a TracingID: reused when the
// caller sent one, generated otherwise, and injected back into the
// request header so downstream code and log records see the same value.
// The ID is also echoed on the response for client-side correlation.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := r.Header.Get(errlog.TracingIDHeader)
		if tid == "" {
			tid = r.URL.Query().Get(errlog.TracingIDHeader)
		}
		if tid == "" {
			tid = uuid.NewString()
		}

		r.Header.Set(errlog.TracingIDHeader, tid)
		w.Header().Set(errlog.TracingIDHeader, tid)

		next.ServeHTTP(w, r)
	})
}
