package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/apperror"
	"schoolapi/src/errlog"
)

// Interceptor is the single catch point for request processing. Panics
// and handler errors both end here; nothing is ever re-thrown past it.
type Interceptor struct {
	classifier *errlog.Classifier
}

func NewInterceptor(classifier *errlog.Classifier) *Interceptor {
	return &Interceptor{classifier: classifier}
}

// Middleware installs the per-request logging guard and converts panics
// into classified error envelopes.
func (i *Interceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(errlog.WithGuard(r.Context()))

		defer func() {
			if p := recover(); p != nil {
				err, ok := p.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", p)
				}
				i.Intercept(w, r, err, debug.Stack())
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Handler adapts an error-returning handler function into an
// http.HandlerFunc routed through the interceptor.
func (i *Interceptor) Handler(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			i.Intercept(w, r, err, nil)
		}
	}
}

// Intercept classifies err and writes the envelope with the status code
// mapped from the classification.
func (i *Interceptor) Intercept(w http.ResponseWriter, r *http.Request, err error, stack []byte) {
	data := i.classify(r.Context(), r, err, stack)
	writeErrorEnvelope(w, data.ErrorType.HTTPStatus(), data)
}

// classify delegates to the classifier; if the classifier itself fails,
// the fixed last-resort envelope data is substituted.
func (i *Interceptor) classify(ctx context.Context, r *http.Request, err error, stack []byte) (data errlog.ErrorData) {
	defer func() {
		if p := recover(); p != nil {
			logger.WithField("panic", fmt.Sprintf("%v", p)).
				Error("error classification failed")
			data = unknownErrorData()
		}
	}()

	data = i.classifier.Handle(ctx, r, err, stack)
	if data.ErrorType.IsZero() {
		data = unknownErrorData()
	}
	return data
}

func unknownErrorData() errlog.ErrorData {
	return errlog.ErrorData{
		ErrorType:       apperror.LogFailure,
		DisplayMessage:  "Unknown Error, Could Not Log",
		AdditionalProps: map[string]string{},
	}
}
