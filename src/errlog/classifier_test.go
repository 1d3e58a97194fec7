package errlog

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/model"
)

type mockPersister struct {
	mu   sync.Mutex
	recs []*model.ErrorLog
	err  error
}

func (m *mockPersister) Persist(_ context.Context, rec *model.ErrorLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *mockPersister) records() []*model.ErrorLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ErrorLog(nil), m.recs...)
}

type mockNotifier struct {
	mu    sync.Mutex
	fatal []*model.ErrorLog
}

func (m *mockNotifier) NotifyFatal(_ context.Context, rec *model.ErrorLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fatal = append(m.fatal, rec)
}

func newTestPipeline(t *testing.T, cfg Config) (*Classifier, *mockPersister, *mockNotifier, *Writer) {
	t.Helper()
	if cfg.AppName == "" {
		cfg.AppName = "schoolapi-test"
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = filepath.Join(t.TempDir(), "fallback.log")
	}
	persister := &mockPersister{}
	notifier := &mockNotifier{}
	writer := NewWriter(persister, NewFallbackLog(cfg.FallbackPath), notifier, 16)
	writer.Start()
	return NewClassifier(writer, cfg), persister, notifier, writer
}

func TestHandleDomainErrorFatalIsPersistedOnce(t *testing.T) {
	classifier, persister, notifier, writer := newTestPipeline(t, Config{})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("POST", "/students", nil)
	req.Header.Set(TracingIDHeader, "11111111-2222-3333-4444-555555555555")

	err := apperror.New(apperror.Fatal, "db write failed", "")

	data := classifier.Handle(ctx, req, err, nil)
	// A second layer reporting the same error instance must not produce
	// a second row.
	classifier.Handle(ctx, req, err, nil)

	writer.Close(time.Second)

	assert.Equal(t, apperror.Fatal, data.ErrorType)
	assert.Equal(t, "db write failed", data.DisplayMessage)

	recs := persister.records()
	if len(recs) != 1 {
		t.Fatalf("expected exactly one persisted record, got %d", len(recs))
	}
	assert.Equal(t, "db write failed", recs[0].LogMessage)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", recs[0].TracingID)
	assert.Equal(t, "Fatal_Log", recs[0].AdditionalInfo)
	assert.NotEmpty(t, recs[0].LogStackTrace)
	assert.NotEmpty(t, recs[0].RequestObject)

	assert.Len(t, notifier.fatal, 1)
}

func TestHandleNoLogKindNotPersisted(t *testing.T) {
	classifier, persister, _, writer := newTestPipeline(t, Config{})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("GET", "/students/9", nil)

	data := classifier.Handle(ctx, req, apperror.New(apperror.NoRecord, "student not found", "Student not found"), nil)
	writer.Close(time.Second)

	assert.Equal(t, apperror.NoRecord, data.ErrorType)
	assert.Equal(t, "Student not found", data.DisplayMessage)
	assert.Empty(t, persister.records())
}

func TestHandleLogEverythingOverride(t *testing.T) {
	classifier, persister, _, writer := newTestPipeline(t, Config{LogEverything: true})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("GET", "/students/9", nil)

	classifier.Handle(ctx, req, apperror.New(apperror.NoRecord, "student not found", ""), nil)
	writer.Close(time.Second)

	assert.Len(t, persister.records(), 1)
}

func TestHandleFrameworkErrorAlwaysLogged(t *testing.T) {
	classifier, persister, notifier, writer := newTestPipeline(t, Config{})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("GET", "/students", nil)

	cause := errors.New("nil pointer dereference")
	err := fmt.Errorf("handler blew up: %w", cause)

	data := classifier.Handle(ctx, req, err, nil)
	writer.Close(time.Second)

	assert.Equal(t, apperror.FrameworkException, data.ErrorType)
	assert.Contains(t, data.DisplayMessage, "In->nil pointer dereference")

	recs := persister.records()
	if len(recs) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(recs))
	}
	assert.Equal(t, err.Error(), recs[0].LogMessage)
	assert.Equal(t, cause.Error(), recs[0].InnerException)
	assert.Empty(t, notifier.fatal, "framework errors are not fatal alerts")
}

func TestHandleEnrichesFromTicket(t *testing.T) {
	classifier, persister, _, writer := newTestPipeline(t, Config{})

	ctx := WithGuard(context.Background())
	ctx = auth.WithTicket(ctx, &auth.Ticket{
		LoginUserID: "42",
		Role:        "Teacher",
		CompanyCode: "SCH001",
	})
	req := httptest.NewRequest("GET", "/students?TracingID=query-tid", nil)

	classifier.Handle(ctx, req, apperror.New(apperror.Fatal, "boom", ""), nil)
	writer.Close(time.Second)

	recs := persister.records()
	if len(recs) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(recs))
	}
	assert.Equal(t, "42", recs[0].LoginUserID)
	assert.Equal(t, "Teacher", recs[0].UserRoleType)
	assert.Equal(t, "SCH001", recs[0].CompanyCode)
	assert.Equal(t, "query-tid", recs[0].TracingID, "query fallback for tracing id")
}

func TestHandleAnonymousRequestLeavesIdentityBlank(t *testing.T) {
	classifier, persister, _, writer := newTestPipeline(t, Config{})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("GET", "/students", nil)

	classifier.Handle(ctx, req, apperror.New(apperror.Fatal, "boom", ""), nil)
	writer.Close(time.Second)

	recs := persister.records()
	if len(recs) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(recs))
	}
	assert.Empty(t, recs[0].LoginUserID)
	assert.Empty(t, recs[0].UserRoleType)
	assert.Empty(t, recs[0].CompanyCode)
}

func TestPersistFailureGoesToFallbackFile(t *testing.T) {
	fallbackPath := filepath.Join(t.TempDir(), "fallback.log")

	persister := &mockPersister{err: errors.New("connection refused")}
	writer := NewWriter(persister, NewFallbackLog(fallbackPath), nil, 16)
	writer.Start()
	classifier := NewClassifier(writer, Config{AppName: "schoolapi-test"})

	ctx := WithGuard(context.Background())
	req := httptest.NewRequest("GET", "/students", nil)

	data := classifier.Handle(ctx, req, apperror.New(apperror.Fatal, "boom", ""), nil)
	writer.Close(time.Second)

	// The caller still gets ordinary envelope data.
	assert.Equal(t, apperror.Fatal, data.ErrorType)

	contents, err := os.ReadFile(fallbackPath)
	if err != nil {
		t.Fatalf("expected fallback file to exist: %v", err)
	}
	assert.Contains(t, string(contents), "connection refused")
	assert.Contains(t, string(contents), "boom")
}

func TestHandleWithoutGuardStillLogs(t *testing.T) {
	classifier, persister, _, writer := newTestPipeline(t, Config{})

	req := httptest.NewRequest("GET", "/students", nil)
	classifier.Handle(context.Background(), req, apperror.New(apperror.Fatal, "boom", ""), nil)
	writer.Close(time.Second)

	assert.Len(t, persister.records(), 1)
}
