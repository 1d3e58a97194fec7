package middleware

import (
	"net/http"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/errlog"
)

// RequireAuth validates the bearer token and stores the resulting ticket
// in the request context. Validation failures answer 401 with the uniform
// envelope; they are authentication outcomes, not error-taxonomy events,
// so no ErrorLog row is written for them.
func RequireAuth(validator auth.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ticket, err := validator.Validate(r.Header.Get("Authorization"))
			if err != nil {
				logger.WithError(err).
					WithField("path", r.URL.Path).
					Warn("unauthorized request")
				writeErrorEnvelope(w, http.StatusUnauthorized, errlog.ErrorData{
					ErrorType:      apperror.AccessDenied,
					DisplayMessage: err.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithTicket(r.Context(), ticket)))
		})
	}
}

// RequireRole rejects authenticated requests whose ticket lacks the given
// role. Must be mounted after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ticket, ok := auth.GetTicketFromContext(r.Context())
			if !ok || ticket.Role != role {
				writeErrorEnvelope(w, http.StatusForbidden, errlog.ErrorData{
					ErrorType:      apperror.AccessDenied,
					DisplayMessage: "Insufficient role for this resource",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
