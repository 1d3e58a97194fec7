package model

import "time"

// ErrorLog is one append-only audit row for a logged failure. Rows are
// only ever inserted; nothing in the service updates or deletes them.
type ErrorLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Identity of the request that failed. Blank when the request was
	// anonymous.
	LoginUserID  string `gorm:"size:100;index" json:"login_user_id"`
	UserRoleType string `gorm:"size:50" json:"user_role_type"`
	CompanyCode  string `gorm:"size:50;index" json:"company_code"`

	CreatedByApp string    `gorm:"size:100" json:"created_by_app"`
	CreatedOnUTC time.Time `gorm:"index" json:"created_on_utc"`

	// Failure detail.
	LogMessage       string `gorm:"type:text" json:"log_message"`
	LogStackTrace    string `gorm:"type:text" json:"log_stack_trace"`
	LogExceptionData string `gorm:"type:text" json:"log_exception_data"`
	InnerException   string `gorm:"type:text" json:"inner_exception"`

	// Correlation.
	TracingID string `gorm:"size:64;index" json:"tracing_id"`
	Caller    string `gorm:"size:200" json:"caller"`

	// Scrubbed request/response captures, JSON encoded.
	RequestObject  string `gorm:"type:text" json:"request_object"`
	ResponseObject string `gorm:"type:text" json:"response_object"`

	AdditionalInfo string `gorm:"type:text" json:"additional_info"`
}
