package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/model"
)

type mockStudentStore struct {
	students []model.Student
	err      error
	created  []*model.Student
}

func (m *mockStudentStore) GetByID(_ context.Context, companyCode string, id uint) (*model.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.students {
		if m.students[i].ID == id && m.students[i].CompanyCode == companyCode {
			return &m.students[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentStore) ListByCompany(_ context.Context, companyCode string) ([]model.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Student
	for _, s := range m.students {
		if s.CompanyCode == companyCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentStore) Create(_ context.Context, s *model.Student) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, s)
	return nil
}

func authedRequest(method, target, body string, ticket *auth.Ticket) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.WithTicket(req.Context(), ticket))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func kindOf(t *testing.T, err error) apperror.Kind {
	t.Helper()
	appErr, ok := apperror.As(err)
	if !ok {
		t.Fatalf("expected an application error, got %v", err)
	}
	return appErr.Kind()
}

func TestGetStudentHandlerNotFound(t *testing.T) {
	h := GetStudentHandler(&mockStudentStore{})

	req := authedRequest("GET", "/students/9", "", &auth.Ticket{CompanyCode: "SCH001"})
	req = withURLParam(req, "studentID", "9")

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.NoRecord, kindOf(t, err))
}

func TestGetStudentHandlerInvalidID(t *testing.T) {
	h := GetStudentHandler(&mockStudentStore{})

	req := authedRequest("GET", "/students/abc", "", &auth.Ticket{CompanyCode: "SCH001"})
	req = withURLParam(req, "studentID", "abc")

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.InvalidInputData, kindOf(t, err))
}

func TestGetStudentHandlerScopesToTenant(t *testing.T) {
	store := &mockStudentStore{students: []model.Student{
		{ID: 1, CompanyCode: "SCH001", FirstName: "Alice"},
	}}
	h := GetStudentHandler(store)

	req := authedRequest("GET", "/students/1", "", &auth.Ticket{CompanyCode: "SCH002"})
	req = withURLParam(req, "studentID", "1")

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.NoRecord, kindOf(t, err), "other tenant's record must not leak")
}

func TestGetStudentHandlerWithoutTicket(t *testing.T) {
	h := GetStudentHandler(&mockStudentStore{})

	req := withURLParam(httptest.NewRequest("GET", "/students/1", nil), "studentID", "1")

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.AccessDenied, kindOf(t, err))
}

func TestCreateStudentHandler(t *testing.T) {
	store := &mockStudentStore{}
	h := CreateStudentHandler(store)

	req := authedRequest("POST", "/students", `{"firstName":"Alice","lastName":"Ng","grade":"5"}`, &auth.Ticket{CompanyCode: "SCH001"})
	rr := httptest.NewRecorder()

	err := h(rr, req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)
	if len(store.created) != 1 {
		t.Fatalf("expected one created student, got %d", len(store.created))
	}
	assert.Equal(t, "SCH001", store.created[0].CompanyCode, "tenant comes from the ticket, not the payload")
}

func TestCreateStudentHandlerRejectsBlankName(t *testing.T) {
	h := CreateStudentHandler(&mockStudentStore{})

	req := authedRequest("POST", "/students", `{"firstName":"  ","lastName":""}`, &auth.Ticket{CompanyCode: "SCH001"})

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.InvalidInputData, kindOf(t, err))
}

func TestListStudentsHandlerFatalOnStoreFailure(t *testing.T) {
	h := ListStudentsHandler(&mockStudentStore{err: assert.AnError})

	req := authedRequest("GET", "/students", "", &auth.Ticket{CompanyCode: "SCH001"})

	err := h(httptest.NewRecorder(), req)
	assert.Equal(t, apperror.Fatal, kindOf(t, err))
}
