package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Request is a serializable capture of an inbound HTTP request, scrubbed
// of credentials so it can be persisted in audit logs.
type Request struct {
	Method        string            `json:"method"`
	URL           string            `json:"url"`
	Headers       map[string]string `json:"headers"`
	ContentType   string            `json:"contentType,omitempty"`
	ContentLength int64             `json:"contentLength,omitempty"`
	UserAgent     string            `json:"userAgent,omitempty"`
	RemoteAddr    string            `json:"remoteAddr,omitempty"`
	LocalAddr     string            `json:"localAddr,omitempty"`
	Body          string            `json:"body,omitempty"`
	FormFields    map[string]string `json:"formFields,omitempty"`
	ReadError     string            `json:"readError,omitempty"`
}

// Response is the outbound counterpart of Request.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

// Options controls optional parts of a capture.
type Options struct {
	IncludeBody    bool
	IncludeCookies bool
}

// Headers that must never reach a persisted snapshot, lowercase.
var blockedHeaders = map[string]struct{}{
	"authorization":       {},
	"originauthorization": {},
	"usertoken":           {},
}

// Form field name fragments that mark a value as sensitive, lowercase.
var sensitiveFieldMarkers = []string{
	"password",
	"pwd",
	"token",
	"card",
	"cvv",
	"__viewstate",
	"__eventvalidation",
}

const maxBodyBytes = 1 << 20

// Capture builds a Request snapshot. It never panics past its boundary;
// internal read failures are recorded in the ReadError field and the rest
// of the snapshot is still returned.
func Capture(r *http.Request, opts Options) (snap *Request) {
	snap = &Request{
		Method:        r.Method,
		URL:           r.URL.String(),
		Headers:       map[string]string{},
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.ContentLength,
		UserAgent:     r.UserAgent(),
		RemoteAddr:    r.RemoteAddr,
	}

	defer func() {
		if rec := recover(); rec != nil {
			snap.ReadError = fmt.Sprintf("snapshot capture failed: %v", rec)
		}
	}()

	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		snap.LocalAddr = addr.String()
	}

	for name, values := range r.Header {
		if !allowedHeader(name, opts.IncludeCookies) {
			continue
		}
		snap.Headers[name] = strings.Join(values, ", ")
	}

	if opts.IncludeBody {
		body, err := readBody(r)
		if err != nil {
			snap.ReadError = "could not read request body: " + err.Error()
		} else {
			snap.Body = body
		}
		if strings.HasPrefix(snap.ContentType, "application/x-www-form-urlencoded") {
			snap.FormFields = scrubFormFields(snap.Body)
		}
	}

	return snap
}

// CaptureResponse builds a Response snapshot with the same header
// scrubbing rules as Capture.
func CaptureResponse(status int, header http.Header, body []byte, opts Options) *Response {
	snap := &Response{
		Status:  status,
		Headers: map[string]string{},
		Body:    string(body),
	}
	for name, values := range header {
		if !allowedHeader(name, opts.IncludeCookies) {
			continue
		}
		snap.Headers[name] = strings.Join(values, ", ")
	}
	return snap
}

func allowedHeader(name string, includeCookies bool) bool {
	lower := strings.ToLower(name)
	if _, blocked := blockedHeaders[lower]; blocked {
		return false
	}
	if !includeCookies && (lower == "cookie" || lower == "set-cookie") {
		return false
	}
	return true
}

// readBody consumes the request body once. Seekable bodies are rewound to
// the start first and again afterwards so downstream consumers can still
// read them; non-seekable bodies are replaced with an in-memory copy.
func readBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	if seeker, ok := r.Body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return "", err
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(strings.NewReader(string(data)))
	return string(data), nil
}

func scrubFormFields(body string) map[string]string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil
	}
	fields := map[string]string{}
	for name := range values {
		if sensitiveField(name) {
			continue
		}
		fields[name] = values.Get(name)
	}
	return fields
}

func sensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// JSON renders the snapshot for persistence. Marshal failures degrade to a
// diagnostic document instead of an error.
func (s *Request) JSON() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf(`{"readError":%q}`, "snapshot marshal failed: "+err.Error())
	}
	return string(data)
}

func (s *Response) JSON() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf(`{"readError":%q}`, "snapshot marshal failed: "+err.Error())
	}
	return string(data)
}
