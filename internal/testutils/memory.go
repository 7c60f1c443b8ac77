// Package testutils holds in-memory stand-ins for the Postgres repositories
// and cache so usecases and HTTP handlers can be tested without a database.
package testutils

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"connecty/internal/domain/profile"
	"connecty/internal/domain/user"

	"github.com/google/uuid"
)

type MemoryUsers struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[uuid.UUID]user.User{}}
}

func (m *MemoryUsers) CreateUser(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = u
	return nil
}

func (m *MemoryUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *MemoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryUsers) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *MemoryUsers) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// MemoryProfiles mirrors the Postgres profile repository, including the
// unique handle constraint and the owner join against MemoryUsers.
type MemoryProfiles struct {
	mu       sync.Mutex
	users    *MemoryUsers
	profiles map[uuid.UUID]profile.Profile

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryProfiles(users *MemoryUsers) *MemoryProfiles {
	return &MemoryProfiles{users: users, profiles: map[uuid.UUID]profile.Profile{}}
}

func (m *MemoryProfiles) FindByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return profile.Profile{}, m.Err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return m.withOwner(ctx, p), nil
}

func (m *MemoryProfiles) FindByHandle(ctx context.Context, handle string) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return profile.Profile{}, m.Err
	}
	for _, p := range m.profiles {
		if p.Handle == handle {
			return m.withOwner(ctx, p), nil
		}
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (m *MemoryProfiles) List(ctx context.Context) ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]profile.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, m.withOwner(ctx, p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return strings.Compare(out[i].Handle, out[j].Handle) < 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryProfiles) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return profile.Profile{}, m.Err
	}
	if _, ok := m.profiles[p.UserID]; ok {
		return profile.Profile{}, profile.ErrProfileExists
	}
	if m.handleOwner(p.Handle) != uuid.Nil {
		return profile.Profile{}, profile.ErrHandleTaken
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p = clone(p)
	m.profiles[p.UserID] = p
	return m.withOwner(ctx, p), nil
}

func (m *MemoryProfiles) Update(ctx context.Context, userID uuid.UUID, f profile.Fields) (profile.Profile, error) {
	return m.Mutate(ctx, userID, func(p *profile.Profile) error {
		f.Apply(p)
		return nil
	})
}

func (m *MemoryProfiles) Mutate(ctx context.Context, userID uuid.UUID, fn func(p *profile.Profile) error) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return profile.Profile{}, m.Err
	}
	current, ok := m.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	next := clone(current)
	if err := fn(&next); err != nil {
		return profile.Profile{}, err
	}
	if owner := m.handleOwner(next.Handle); owner != uuid.Nil && owner != userID {
		return profile.Profile{}, profile.ErrHandleTaken
	}
	next.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = clone(next)
	return m.withOwner(ctx, next), nil
}

func (m *MemoryProfiles) DeleteWithUser(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.profiles, userID)
	if m.users != nil {
		m.users.Delete(userID)
	}
	return nil
}

func (m *MemoryProfiles) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

func (m *MemoryProfiles) handleOwner(handle string) uuid.UUID {
	for uid, p := range m.profiles {
		if p.Handle == handle {
			return uid
		}
	}
	return uuid.Nil
}

func (m *MemoryProfiles) withOwner(ctx context.Context, p profile.Profile) profile.Profile {
	p = clone(p)
	p.Owner.ID = p.UserID
	if m.users != nil {
		if u, err := m.users.GetUserByID(ctx, p.UserID); err == nil {
			p.Owner.Name = u.Name
			p.Owner.Avatar = u.Avatar
		}
	}
	return p
}

func clone(p profile.Profile) profile.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]profile.Experience(nil), p.Experience...)
	p.Education = append([]profile.Education(nil), p.Education...)
	return p
}

// MemoryCache is a map-backed cache with glob pattern deletion.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string][]byte{}}
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	b, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *MemoryCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// EventRecorder collects published profile events.
type EventRecorder struct {
	mu     sync.Mutex
	events []profile.Event
}

func (r *EventRecorder) Publish(evt profile.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *EventRecorder) Events() []profile.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]profile.Event(nil), r.events...)
}
