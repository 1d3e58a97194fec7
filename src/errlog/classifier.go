package errlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/model"
	"schoolapi/src/snapshot"
)

// Correlation keys, read from headers with a query-string fallback.
const (
	TracingIDHeader  = "TracingID"
	CallerNameHeader = "CallerName"
)

// ErrorData is what the interceptor needs to render the response
// envelope.
type ErrorData struct {
	ErrorType       apperror.Kind
	DisplayMessage  string
	AdditionalProps map[string]string
}

// Classifier decides whether an error is persisted, builds the audit
// record and owns the at-most-once guarantee per error instance.
type Classifier struct {
	writer        *Writer
	logEverything bool
	appName       string
	now           func() time.Time
}

func NewClassifier(writer *Writer, cfg Config) *Classifier {
	return &Classifier{
		writer:        writer,
		logEverything: cfg.LogEverything,
		appName:       cfg.AppName,
		now:           time.Now,
	}
}

// Handle classifies err, queues an ErrorLog when policy requires one and
// returns the envelope data. Intentionally raised errors follow their
// kind's logging policy; anything else is a framework failure and is
// always logged. stack may be nil, in which case the current stack is
// captured.
func (c *Classifier) Handle(ctx context.Context, r *http.Request, err error, stack []byte) ErrorData {
	data := ErrorData{AdditionalProps: map[string]string{}}

	var (
		shouldLog  bool
		logMessage string
		inner      string
	)

	if appErr, ok := apperror.As(err); ok {
		data.ErrorType = appErr.Kind()
		data.DisplayMessage = appErr.DisplayMessage()
		shouldLog = appErr.Loggable() || c.logEverything
		logMessage = appErr.DevMessage()
		if cause := errors.Unwrap(appErr); cause != nil {
			inner = cause.Error()
		}
	} else {
		data.ErrorType = apperror.FrameworkException
		shouldLog = true
		logMessage = err.Error()
		display := err.Error()
		if cause := errors.Unwrap(err); cause != nil {
			inner = cause.Error()
			display = display + "In->" + inner
		}
		data.DisplayMessage = display
	}

	if !shouldLog {
		return data
	}

	if guard := GuardFromContext(ctx); guard != nil && !guard.FirstAttempt(err) {
		return data
	}

	if stack == nil {
		stack = debug.Stack()
	}

	rec := c.buildRecord(ctx, r, err, data, logMessage, inner, stack)
	c.writer.Enqueue(rec, data.ErrorType == apperror.Fatal)

	return data
}

func (c *Classifier) buildRecord(
	ctx context.Context,
	r *http.Request,
	err error,
	data ErrorData,
	logMessage string,
	inner string,
	stack []byte,
) *model.ErrorLog {

	rec := &model.ErrorLog{
		CreatedByApp:     c.appName,
		CreatedOnUTC:     c.now().UTC(),
		LogMessage:       logMessage,
		LogStackTrace:    string(stack),
		InnerException:   inner,
		LogExceptionData: exceptionDataJSON(err, data),
		AdditionalInfo:   data.ErrorType.String(),
	}

	if r != nil {
		rec.TracingID = headerOrQuery(r, TracingIDHeader)
		rec.Caller = headerOrQuery(r, CallerNameHeader)
		rec.RequestObject = snapshot.Capture(r, snapshot.Options{IncludeBody: true}).JSON()
	}

	// A missing ticket means an anonymous request, not a failure.
	if ticket, ok := auth.GetTicketFromContext(ctx); ok && ticket != nil {
		rec.LoginUserID = ticket.LoginUserID
		rec.UserRoleType = ticket.Role
		rec.CompanyCode = ticket.CompanyCode
	}

	return rec
}

func headerOrQuery(r *http.Request, key string) string {
	if v := r.Header.Get(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

// exceptionDataJSON serializes everything known about the error for
// forensics. It must never fail the logging path.
func exceptionDataJSON(err error, data ErrorData) string {
	bag := map[string]interface{}{
		"error":           err.Error(),
		"goType":          fmt.Sprintf("%T", err),
		"errorType":       data.ErrorType.String(),
		"additionalProps": data.AdditionalProps,
	}
	encoded, marshalErr := json.Marshal(bag)
	if marshalErr != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(encoded)
}
