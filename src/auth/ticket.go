package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ticket is the authenticated identity produced by a successful token
// validation. It lives for one request and is never persisted.
type Ticket struct {
	LoginUserID  string
	Role         string
	CompanyCode  string
	RecordID     uint
	IssuedAtUTC  time.Time
	ExpiresAtUTC time.Time
}

// TokenClaims is the wire shape of an access token.
type TokenClaims struct {
	Role        string `json:"role"`
	CompanyCode string `json:"company_code"`
	RecordID    uint   `json:"record_id"`
	jwt.RegisteredClaims
}

func ticketFromClaims(claims *TokenClaims) *Ticket {
	t := &Ticket{
		LoginUserID: claims.Subject,
		Role:        claims.Role,
		CompanyCode: claims.CompanyCode,
		RecordID:    claims.RecordID,
	}
	if claims.IssuedAt != nil {
		t.IssuedAtUTC = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		t.ExpiresAtUTC = claims.ExpiresAt.Time.UTC()
	}
	return t
}
