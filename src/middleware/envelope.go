package middleware

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/errlog"
)

// ErrorEnvelope is the uniform error response body. Every failure that
// leaves the service is shaped like this; callers never see a raw stack
// trace.
type ErrorEnvelope struct {
	IsError   bool          `json:"isError"`
	ErrorData EnvelopeError `json:"errorData"`
}

type EnvelopeError struct {
	ErrorType       string            `json:"errorType"`
	DisplayMessage  string            `json:"displayMessage"`
	AdditionalProps map[string]string `json:"additionalProps"`
}

func writeErrorEnvelope(w http.ResponseWriter, status int, data errlog.ErrorData) {
	props := data.AdditionalProps
	if props == nil {
		props = map[string]string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	env := ErrorEnvelope{
		IsError: true,
		ErrorData: EnvelopeError{
			ErrorType:       data.ErrorType.String(),
			DisplayMessage:  data.DisplayMessage,
			AdditionalProps: props,
		},
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.WithError(err).Error("failed to encode error envelope")
	}
}
