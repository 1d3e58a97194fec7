package model

import "time"

// Student is a tenant-scoped school record.
type Student struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CompanyCode string `gorm:"size:50;index" json:"company_code"`
	FirstName   string `gorm:"size:100" json:"first_name"`
	LastName    string `gorm:"size:100" json:"last_name"`
	Grade       string `gorm:"size:20" json:"grade"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateStudentPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Grade     string `json:"grade"`
}
