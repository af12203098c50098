package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"user-api/internal/models"
)

// memStore is an in-memory UserStore with the same ordering and uniqueness
// rules as the Postgres store.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User

	listCalls   int
	afterList   func()
	streamOpen  int
	streamAfter func(n int) error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[int64]models.User)}
}

func (m *memStore) sorted() []models.User {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) InsertUser(_ context.Context, name, email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, fmt.Errorf("%w: email %q already exists", models.ErrConstraintViolation, email)
		}
	}
	m.nextID++
	u := models.User{ID: m.nextID, Name: name, Email: email, Password: password, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return &u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListUsers(_ context.Context, limit int, offset int) ([]models.User, error) {
	m.mu.Lock()
	m.listCalls++
	all := m.sorted()
	hook := m.afterList
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if offset >= len(all) {
		return []models.User{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) CountUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memStore) UpdateUserName(_ context.Context, id int64, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Name = name
	m.users[id] = u
	return &u, nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *memStore) SearchUsersByName(_ context.Context, fragment string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.sorted() {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(fragment)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) StreamUsers(ctx context.Context, fn func(models.User) error) error {
	m.mu.Lock()
	rows := m.sorted()
	m.streamOpen++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.streamOpen--
		m.mu.Unlock()
	}()

	for i, u := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.streamAfter != nil {
			if err := m.streamAfter(i); err != nil {
				return err
			}
		}
		if err := fn(u); err != nil {
			return err
		}
	}
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Matches(stored, password string) bool { return stored == "hashed:"+password }

type stubTokens struct{}

func (stubTokens) Issue(identity string) (string, error) { return "token-for-" + identity, nil }

type recordingEvents struct {
	mu     sync.Mutex
	events []models.UserEvent
}

func (r *recordingEvents) Publish(e models.UserEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) types() []models.UserEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UserEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type memFiles struct {
	saved   map[string][]byte
	deleted []string
	err     error
	onSave  func()
}

func (f *memFiles) Save(name string, data io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[name] = b
	if f.onSave != nil {
		f.onSave()
	}
	return "uploads/" + name, nil
}

func (f *memFiles) Delete(name string) error {
	delete(f.saved, name)
	f.deleted = append(f.deleted, name)
	return nil
}

type memObjects struct {
	keys []string
	err  error
}

func (o *memObjects) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) (string, error) {
	if o.err != nil {
		return "", o.err
	}
	if _, err := io.Copy(io.Discard, data); err != nil {
		return "", err
	}
	o.keys = append(o.keys, key)
	return "https://bucket.s3.us-east-1.amazonaws.com/" + key, nil
}

type stubProfiles struct {
	profile *models.GithubProfile
	err     error
	asked   []string
}

func (p *stubProfiles) FetchProfile(_ context.Context, username string) (*models.GithubProfile, error) {
	p.asked = append(p.asked, username)
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

// flushRecorder counts flushes and can fail after a number of writes.
type flushRecorder struct {
	bytes.Buffer
	flushes   int
	failAfter int
	writes    int
}

func (f *flushRecorder) Write(p []byte) (int, error) {
	f.writes++
	if f.failAfter > 0 && f.writes > f.failAfter {
		return 0, errors.New("client went away")
	}
	return f.Buffer.Write(p)
}

func (f *flushRecorder) Flush() { f.flushes++ }
