package service

import (
	"context"
	"sync"

	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
)

// memStore keeps users and profiles in memory and mirrors the repository error contract.
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	profiles map[string]model.Profile

	creates   int
	failWith  error
	upsertErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		profiles: map[string]model.Profile{},
	}
}

func (m *memStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.users[u.ID] = *u
	m.creates++
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *memStore) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.profiles, id)
	delete(m.users, id)
	return nil
}

func (m *memStore) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	out := cloneProfile(p)
	if u, ok := m.users[userID]; ok {
		out.User = model.ProfileOwner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return &out, nil
}

func (m *memStore) List(ctx context.Context) ([]model.Profile, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := []model.Profile{}
	for _, id := range ids {
		p, err := m.GetByUserID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) Upsert(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	stored := cloneProfile(*p)
	if existing, ok := m.profiles[p.UserID]; ok {
		stored.ID = existing.ID
	}
	m.profiles[p.UserID] = stored
	return nil
}

func cloneProfile(p model.Profile) model.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]model.Experience{}, p.Experience...)
	p.Education = append([]model.Education{}, p.Education...)
	return p
}
