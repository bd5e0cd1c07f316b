package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for dev/testing.
type MemoryStore struct {
	mu    sync.Mutex
	users []User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FindByEmail returns an account, or nil when absent.
func (m *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// List returns all accounts, newest first.
func (m *MemoryStore) List(ctx context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.users))
	for i := len(m.users) - 1; i >= 0; i-- {
		out = append(out, m.users[i])
	}
	return out, nil
}

// Insert appends a new account.
func (m *MemoryStore) Insert(ctx context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users = append(m.users, u)
	return u, nil
}

// Upsert creates or replaces the mutable fields of the account with email.
func (m *MemoryStore) Upsert(ctx context.Context, email string, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			cur := &m.users[i]
			cur.Name = u.Name
			cur.PhotoURL = u.PhotoURL
			cur.Role = u.Role
			cur.Batch = u.Batch
			cur.StudentID = u.StudentID
			cur.AccountType = u.AccountType
			cur.Department = u.Department
			cur.Phone = u.Phone
			return *cur, nil
		}
	}
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	m.users = append(m.users, u)
	return u, nil
}

// Delete removes an account by row id.
func (m *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
