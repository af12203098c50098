package service

import (
	"context"
	"fmt"
	"strings"

	"user-api/internal/models"
)

const (
	msgEmailChecked      = "email Checked"
	msgUserAuthenticated = "User authenticated"
)

type LoginMessage struct {
	Message string `json:"message"`
}

// LoginCheck is the diagnostic answer of the plain login route. It never
// fails on bad credentials; it just reports which checks passed.
type LoginCheck struct {
	User     string         `json:"user"`
	Messages []LoginMessage `json:"messages"`
}

// AuthenticateUser verifies the credentials and returns a signed bearer
// token bound to the user's email.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", models.NewError(models.ErrUnauthorized, "Invalid email")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("load user for login: %w", err)
	}
	if user == nil {
		return "", models.NewError(models.ErrUnauthorized, "Invalid email")
	}
	if !s.hasher.Matches(user.Password, password) {
		return "", models.NewError(models.ErrUnauthorized, "Invalid password")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *UserService) CheckLogin(ctx context.Context, email, password string) (*LoginCheck, error) {
	email = strings.TrimSpace(email)
	check := &LoginCheck{User: email, Messages: []LoginMessage{}}
	if email == "" {
		return check, nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user for login check: %w", err)
	}
	if user == nil {
		return check, nil
	}

	check.Messages = append(check.Messages, LoginMessage{Message: msgEmailChecked})
	if s.hasher.Matches(user.Password, password) {
		check.Messages = append(check.Messages, LoginMessage{Message: msgUserAuthenticated})
	}
	return check, nil
}
