package service

import (
	"context"
	"fmt"
	"io"

	"user-api/internal/models"
	"user-api/internal/storage"

	"github.com/rs/zerolog/log"
)

var errFileNotAllowed = models.NewError(models.ErrUnsupportedMediaType, "File type not allowed")

// UploadProfilePicture stores an image for an existing user on local disk
// under user_<id>_<filename>, sanitized.
func (s *UserService) UploadProfilePicture(ctx context.Context, userID int64, filename string, data io.Reader) (*models.UploadedAsset, error) {
	if filename == "" {
		return nil, models.NewValidationError("", "No file selected")
	}
	if !storage.AllowedFile(filename) {
		return nil, errFileNotAllowed
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	name := storage.SecureFilename(fmt.Sprintf("user_%d_%s", userID, filename))
	path, err := s.files.Save(name, data)
	if err != nil {
		return nil, models.WrapError(models.ErrUploadFailed, "could not store file", err)
	}

	// The owner may have been deleted while the body was streaming in.
	user, err = s.store.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		if delErr := s.files.Delete(name); delErr != nil {
			log.Warn().Err(delErr).Str("file", name).Msg("failed to remove orphaned upload")
		}
		if err != nil {
			return nil, fmt.Errorf("get user %d: %w", userID, err)
		}
		return nil, errUserNotFound
	}

	owner := userID
	return &models.UploadedAsset{OwnerID: &owner, StorageKey: name, Location: path}, nil
}

// UploadFile relays an image to the cloud bucket under its sanitized name.
func (s *UserService) UploadFile(ctx context.Context, filename string, size int64, contentType string, data io.Reader) (*models.UploadedAsset, error) {
	if filename == "" {
		return nil, models.NewValidationError("", "No file selected")
	}
	if !storage.AllowedFile(filename) {
		return nil, errFileNotAllowed
	}
	if s.objects == nil {
		return nil, models.NewError(models.ErrUploadFailed, "cloud storage is not configured")
	}

	key := storage.SecureFilename(filename)
	if key == "" {
		return nil, models.NewValidationError("file", "has no usable name")
	}

	location, err := s.objects.Upload(ctx, key, data, size, contentType)
	if err != nil {
		return nil, err
	}
	return &models.UploadedAsset{StorageKey: key, Location: location}, nil
}
