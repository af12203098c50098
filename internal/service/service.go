// Package service implements the user resource operations on top of the
// entity store, the blob relays, the profile provider and the response cache.
package service

import (
	"context"
	"io"

	"user-api/internal/auth"
	"user-api/internal/cache"
	"user-api/internal/config"
	"user-api/internal/models"
)

// UserStore is the data access the service needs. *database.Store
// satisfies it.
type UserStore interface {
	InsertUser(ctx context.Context, name, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUserName(ctx context.Context, id int64, name string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	SearchUsersByName(ctx context.Context, fragment string) ([]models.User, error)
	StreamUsers(ctx context.Context, fn func(models.User) error) error
}

type TokenIssuer interface {
	Issue(identity string) (string, error)
}

type EventPublisher interface {
	Publish(event models.UserEvent)
}

type FileStore interface {
	Save(name string, data io.Reader) (string, error)
	Delete(name string) error
}

type ObjectUploader interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
}

type ProfileProvider interface {
	FetchProfile(ctx context.Context, username string) (*models.GithubProfile, error)
}

// Deps wires a UserService. Objects may be nil when no bucket is configured,
// and Events may be nil when nobody listens for changes.
type Deps struct {
	Store       UserStore
	Hasher      auth.CredentialHasher
	Tokens      TokenIssuer
	Cache       cache.Cache
	CachePolicy string
	Events      EventPublisher
	Files       FileStore
	Objects     ObjectUploader
	Profiles    ProfileProvider

	DefaultGithubUser string
}

type UserService struct {
	store       UserStore
	hasher      auth.CredentialHasher
	tokens      TokenIssuer
	cache       cache.Cache
	cachePolicy string
	events      EventPublisher
	files       FileStore
	objects     ObjectUploader
	profiles    ProfileProvider
	githubUser  string
}

func NewUserService(d Deps) *UserService {
	policy := d.CachePolicy
	if policy == "" {
		policy = config.CachePolicyInvalidate
	}
	responseCache := d.Cache
	if responseCache == nil {
		responseCache = cache.NewMemoryCache()
	}
	return &UserService{
		store:       d.Store,
		hasher:      d.Hasher,
		tokens:      d.Tokens,
		cache:       responseCache,
		cachePolicy: policy,
		events:      d.Events,
		files:       d.Files,
		objects:     d.Objects,
		profiles:    d.Profiles,
		githubUser:  d.DefaultGithubUser,
	}
}
