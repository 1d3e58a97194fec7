package repository

import (
	"context"

	"gorm.io/gorm"

	"schoolapi/src/database"
	"schoolapi/src/model"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		db: database.MainDB,
	}
}

// GetByID returns a student scoped to one tenant. gorm.ErrRecordNotFound
// surfaces unchanged so handlers can classify it.
func (r *StudentRepository) GetByID(ctx context.Context, companyCode string, id uint) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("company_code = ? AND id = ?", companyCode, id).
		First(&s).Error

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *StudentRepository) ListByCompany(ctx context.Context, companyCode string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("company_code = ?", companyCode).
		Order("last_name, first_name").
		Find(&students).Error

	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}
