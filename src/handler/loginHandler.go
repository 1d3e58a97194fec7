package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolapi/src/apperror"
	"schoolapi/src/auth"
	"schoolapi/src/model"
)

type UserFinder interface {
	GetUserByUserName(ctx context.Context, userName string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(user *model.User) (string, *auth.Ticket, error)
}

// LoginHandler verifies credentials and issues an access token. Invalid
// credentials answer with the same message regardless of whether the
// account exists.
func LoginHandler(users UserFinder, tokens TokenIssuer) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		var payload model.LoginPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			return apperror.Wrap(apperror.InvalidInputData, "invalid login payload", err)
		}

		payload.UserName = strings.TrimSpace(payload.UserName)
		if payload.UserName == "" || payload.Password == "" {
			return apperror.New(apperror.InvalidInputData, "username and password are required", "Username and password are required")
		}

		user, err := users.GetUserByUserName(r.Context(), payload.UserName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.AccessDenied, "unknown user "+payload.UserName, "Invalid username or password")
			}
			return apperror.Wrap(apperror.Fatal, "failed to load user for login", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
			logger.WithField("user_id", user.ID).Warn("password mismatch on login")
			return apperror.New(apperror.AccessDenied, "password mismatch for user "+payload.UserName, "Invalid username or password")
		}

		token, ticket, err := tokens.Issue(user)
		if err != nil {
			return apperror.Wrap(apperror.Fatal, "failed to issue access token", err)
		}

		w.Header().Set("Content-Type", "application/json")
		return json.NewEncoder(w).Encode(model.LoginResponse{
			Token:        token,
			ExpiresAtUTC: ticket.ExpiresAtUTC,
		})
	}
}
