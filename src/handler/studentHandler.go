package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/model"
)

type StudentReader interface {
	GetByID(ctx context.Context, companyCode string, id uint) (*model.Student, error)
	ListByCompany(ctx context.Context, companyCode string) ([]model.Student, error)
}

type StudentWriter interface {
	Create(ctx context.Context, s *model.Student) error
}

func requireTicket(r *http.Request) (*auth.Ticket, error) {
	ticket, ok := auth.GetTicketFromContext(r.Context())
	if !ok || ticket == nil {
		return nil, apperror.New(apperror.AccessDenied, "no identity on protected route", "Unauthorized")
	}
	return ticket, nil
}

func GetStudentHandler(students StudentReader) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		ticket, err := requireTicket(r)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "studentID"), 10, 32)
		if err != nil {
			return apperror.New(apperror.InvalidInputData, "invalid student id", "Invalid student identifier")
		}

		student, err := students.GetByID(r.Context(), ticket.CompanyCode, uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.NoRecord, fmt.Sprintf("student %d not found", id), "Student not found")
			}
			return apperror.Wrap(apperror.Fatal, "failed to load student", err)
		}

		w.Header().Set("Content-Type", "application/json")
		return json.NewEncoder(w).Encode(student)
	}
}

func ListStudentsHandler(students StudentReader) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		ticket, err := requireTicket(r)
		if err != nil {
			return err
		}

		list, err := students.ListByCompany(r.Context(), ticket.CompanyCode)
		if err != nil {
			return apperror.Wrap(apperror.Fatal, "failed to list students", err)
		}

		w.Header().Set("Content-Type", "application/json")
		return json.NewEncoder(w).Encode(list)
	}
}

func CreateStudentHandler(students StudentWriter) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		ticket, err := requireTicket(r)
		if err != nil {
			return err
		}

		var payload model.CreateStudentPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			return apperror.Wrap(apperror.InvalidInputData, "invalid student payload", err)
		}

		payload.FirstName = strings.TrimSpace(payload.FirstName)
		payload.LastName = strings.TrimSpace(payload.LastName)
		if payload.FirstName == "" || payload.LastName == "" {
			return apperror.New(apperror.InvalidInputData, "student name is required", "First and last name are required")
		}

		student := &model.Student{
			CompanyCode: ticket.CompanyCode,
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			Grade:       strings.TrimSpace(payload.Grade),
		}
		if err := students.Create(r.Context(), student); err != nil {
			return apperror.Wrap(apperror.Fatal, "failed to create student", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		return json.NewEncoder(w).Encode(student)
	}
}
