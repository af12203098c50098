package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"user-api/internal/auth"
	"user-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", models.NewValidationError("email", "is required"), http.StatusBadRequest, "email is required"},
		{"media type", models.NewError(models.ErrUnsupportedMediaType, "File type not allowed"), http.StatusBadRequest, "File type not allowed"},
		{"duplicate", fmt.Errorf("create user: %w", models.ErrConstraintViolation), http.StatusConflict, "User with this email already exists"},
		{"not found", models.NewError(models.ErrNotFound, "User not found."), http.StatusNotFound, "User not found."},
		{"unauthorized", models.NewError(models.ErrUnauthorized, "Invalid email"), http.StatusUnauthorized, "Invalid email"},
		{"expired", fmt.Errorf("%w: boom", auth.ErrExpiredToken), http.StatusUnauthorized, "Token has expired"},
		{"invalid", fmt.Errorf("%w: boom", auth.ErrInvalidToken), http.StatusUnauthorized, "Invalid token"},
		{"too large", fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge, "File too large"},
		{"body too large", models.WrapError(models.ErrValidation, "Request body too large", &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge, "Request body too large"},
		{"external missing", models.WrapError(models.ErrExternalNotFound, "Github user not found", errors.New("404")), http.StatusNotFound, "Github user not found"},
		{"external down", fmt.Errorf("%w: %w", models.ErrExternalUnavailable, context.DeadlineExceeded), http.StatusBadGateway, "External service unavailable"},
		{"upload failed", models.WrapError(models.ErrUploadFailed, "could not store file", errors.New("disk full")), http.StatusInternalServerError, "could not store file"},
		{"s3 failure", fmt.Errorf("%w: s3 put: %w", models.ErrUploadFailed, errors.New("AccessDenied")), http.StatusInternalServerError, "Upload failed"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := classify(tt.err)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.message, message)
		})
	}
}
