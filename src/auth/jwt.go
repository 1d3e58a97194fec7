package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"schoolapi/src/model"
)

// Validation failure reasons. The exact strings are part of the API
// surface; clients and support tooling match on them.
var (
	ErrTokenMissing   = errors.New("Token is null or empty.")
	ErrTokenMalformed = errors.New("Could not unprotect token.")
	ErrTokenExpired   = errors.New("Token is expired.")
)

// TokenValidator turns an Authorization header value into a Ticket or a
// typed failure. Validation is stateless and performed fresh per request.
type TokenValidator interface {
	Validate(authorizationHeader string) (*Ticket, error)
}

// JWT issues and validates HMAC-signed access tokens.
type JWT struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	now        func() time.Time
}

func NewJWT(cfg Config) *JWT {
	return &JWT{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		now:        time.Now,
	}
}

// Issue signs an access token for the given user.
func (s *JWT) Issue(user *model.User) (string, *Ticket, error) {
	now := s.now().UTC()
	claims := TokenClaims{
		Role:        user.Role,
		CompanyCode: user.CompanyCode,
		RecordID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, ticketFromClaims(&claims), nil
}

// Validate walks the token state machine: no token -> unauthenticated;
// token present -> expired, malformed or valid; valid -> Ticket. Expiry is
// checked before the signature so an expired token reports expiry even
// when it was signed with the wrong key.
func (s *JWT) Validate(authorizationHeader string) (*Ticket, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authorizationHeader), "Bearer"))
	if raw == "" {
		return nil, ErrTokenMissing
	}

	unverified := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, unverified); err != nil {
		return nil, ErrTokenMalformed
	}
	if unverified.ExpiresAt != nil && s.now().After(unverified.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, ErrTokenMalformed
	}

	return ticketFromClaims(claims), nil
}
