package apperror

import "net/http"

// Kind classifies a failure. Each kind carries the default persistence
// policy as a structural property; the wire name keeps the historical
// _Log/_NoLog suffix because API consumers already match on it.
type Kind struct {
	name     string
	loggable bool
}

var (
	// Caller-side failures. Not persisted by default.
	InvalidInputData = Kind{name: "InvalidInputData_NoLog"}
	NoRecord         = Kind{name: "NoRecord_NoLog"}
	DuplicateRecord  = Kind{name: "DuplicateRecord_NoLog"}
	AccessDenied     = Kind{name: "AccessDenied_NoLog"}

	// Server-side failures. Always persisted.
	Fatal              = Kind{name: "Fatal_Log", loggable: true}
	FrameworkException = Kind{name: "FrameworkException_Log", loggable: true}

	// LogFailure marks the pathological case where the error pipeline
	// itself broke while handling another error.
	LogFailure = Kind{name: "LogFailure_Log", loggable: true}
)

func (k Kind) String() string { return k.name }

// Loggable reports whether errors of this kind are persisted by default.
func (k Kind) Loggable() bool { return k.loggable }

func (k Kind) IsZero() bool { return k.name == "" }

// HTTPStatus maps the classification to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidInputData:
		return http.StatusBadRequest
	case AccessDenied:
		return http.StatusForbidden
	case NoRecord:
		return http.StatusNotFound
	case DuplicateRecord:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
