package repository

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolapi/src/database"
	"schoolapi/src/model"
)

// ErrorLogRepository appends audit rows for logged failures. It is
// insert-only; no update or delete path exists.
type ErrorLogRepository struct {
	db *gorm.DB
}

func NewErrorLogRepository() *ErrorLogRepository {
	return &ErrorLogRepository{
		db: database.MainDB,
	}
}

// Persist writes exactly one row. It never panics: internal failures are
// converted into the returned error so the caller can fall back to the
// file log.
func (r *ErrorLogRepository) Persist(ctx context.Context, rec *model.ErrorLog) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("error log insert panicked: %v", p)
		}
	}()

	if rec == nil {
		return fmt.Errorf("error log record is nil")
	}

	logger.WithFields(map[string]interface{}{
		"tracingId":   rec.TracingID,
		"companyCode": rec.CompanyCode,
		"createdBy":   rec.CreatedByApp,
	}).Error("Persisting error log record")

	// Each call runs as its own session so a poisoned statement from a
	// previous failure cannot leak in.
	return r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).Create(rec).Error
}
