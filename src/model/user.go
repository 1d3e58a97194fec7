package model

import "time"

// User is an account that can authenticate against the API. CompanyCode
// scopes the account to one tenant (school).
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserName    string `gorm:"size:100;uniqueIndex" json:"user_name"`
	Password    string `gorm:"size:200" json:"-"` // bcrypt hash
	Role        string `gorm:"size:50" json:"role"`
	CompanyCode string `gorm:"size:50;index" json:"company_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginPayload struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	ExpiresAtUTC time.Time `json:"expiresAtUtc"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	UserName    string `json:"userName"`
	Role        string `json:"role"`
	CompanyCode string `json:"companyCode"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Role:        u.Role,
		CompanyCode: u.CompanyCode,
	}
}
