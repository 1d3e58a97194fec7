package middleware

import (
	"io"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/snapshot"
)

const maxBufferedBody = 1 << 20

// BodyBuffer replaces the request body with a seekable in-memory copy so
// that a later error snapshot can re-read it after the handler consumed
// the stream. Unreadable bodies are left alone; the snapshot records its
// own diagnostic in that case.
func BodyBuffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.Body != http.NoBody {
			data, err := io.ReadAll(io.LimitReader(r.Body, maxBufferedBody))
			_ = r.Body.Close()
			if err != nil {
				logger.WithError(err).Warn("failed to buffer request body")
			} else {
				r.Body = snapshot.NewReplayableBody(data)
			}
		}
		next.ServeHTTP(w, r)
	})
}
