package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"user-api/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var errUserNotFound = models.NewError(models.ErrNotFound, "User not found.")

// CreateUserInput is the normalized create request, whether it arrived as a
// form or as a JSON body.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserInput struct {
	Username string `json:"username" validate:"required,max=255"`
}

type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.ListUsers(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return models.Views(users), nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.UserView, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.InsertUser(ctx, in.Username, in.Email, hash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.afterWrite(ctx, models.UserCreated, user.ID)
	view := user.View()
	return &view, nil
}

func (s *UserService) GetUserOrNotFound(ctx context.Context, id int64) (*models.UserView, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if user == nil {
		return nil, errUserNotFound
	}
	view := user.View()
	return &view, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*models.UserView, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUserName(ctx, id, in.Username)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	s.afterWrite(ctx, models.UserUpdated, user.ID)
	view := user.View()
	return &view, nil
}

// DeleteUser is idempotent: deleting an unknown id succeeds with
// Deleted=false.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (DeleteResult, error) {
	affected, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete user %d: %w", id, err)
	}
	if affected == 0 {
		return DeleteResult{Deleted: false}, nil
	}

	s.afterWrite(ctx, models.UserDeleted, id)
	return DeleteResult{Deleted: true}, nil
}

func (s *UserService) SearchUsers(ctx context.Context, fragment string) ([]models.UserView, error) {
	users, err := s.store.SearchUsersByName(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return models.Views(users), nil
}

// ParsePageParams reads raw page and limit query values. Missing values fall
// back to DefaultPage and DefaultLimit.
func ParsePageParams(pageRaw, limitRaw string) (int, int, error) {
	page, err := parsePositive("page", pageRaw, DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parsePositive("limit", limitRaw, DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func parsePositive(field, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, models.NewValidationError(field, "must be a positive integer")
	}
	return n, nil
}

func (s *UserService) PaginateUsers(ctx context.Context, page, limit int) (*models.UserPage, error) {
	if page < 1 {
		return nil, models.NewValidationError("page", "must be a positive integer")
	}
	if limit < 1 {
		return nil, models.NewValidationError("limit", "must be a positive integer")
	}

	total, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	result := &models.UserPage{
		Page:       page,
		Limit:      limit,
		TotalUsers: total,
		TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
		Users:      []models.UserView{},
	}

	// Pages past the end are answered without a query, which also keeps
	// (page-1)*limit from overflowing for huge page numbers.
	if page-1 > math.MaxInt/limit || int64((page-1)*limit) >= total {
		return result, nil
	}

	users, err := s.store.ListUsers(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list users page %d: %w", page, err)
	}
	result.Users = models.Views(users)
	return result, nil
}

func (s *UserService) afterWrite(ctx context.Context, kind models.UserEventType, userID int64) {
	s.invalidateCache(ctx)
	if s.events != nil {
		s.events.Publish(models.UserEvent{Type: kind, UserID: userID, At: time.Now().UTC()})
	}
}
