// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"slices"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*User    // keyed by user ID
	roles    map[string][]string // keyed by user ID
	settings map[string]string
	audit    []AuditEntry
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		roles:    make(map[string][]string),
		settings: make(map[string]string),
	}
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrUsernameExists
		}
	}
	u := *user
	m.users[u.ID] = &u
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername retrieves a user by username.
func (m *MockStore) GetUserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

// CountUsers returns the number of stored users.
func (m *MockStore) CountUsers(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// AddRole assigns a role.
func (m *MockStore) AddRole(_ context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(m.roles[userID], role) {
		m.roles[userID] = append(m.roles[userID], role)
		slices.Sort(m.roles[userID])
	}
	return nil
}

// RemoveRole removes a role.
func (m *MockStore) RemoveRole(_ context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roles[userID] = slices.DeleteFunc(m.roles[userID], func(r string) bool { return r == role })
	return nil
}

// ListRoles returns a copy of the user's roles.
func (m *MockStore) ListRoles(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.roles[userID]), nil
}

// GetSetting returns a setting value.
func (m *MockStore) GetSetting(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.settings[key]
	if !ok {
		return "", ErrSettingNotFound
	}
	return v, nil
}

// SetSetting stores a setting value.
func (m *MockStore) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// AppendAudit records an entry in memory.
func (m *MockStore) AppendAudit(_ context.Context, e *AuditEntry) error {
	prepareAuditEntry(e)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, *e)
	return nil
}

// ListAudit returns matching entries, newest first.
func (m *MockStore) ListAudit(_ context.Context, f AuditFilter) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := normalizeAuditLimit(f.Limit)
	out := []AuditEntry{}
	for i := len(m.audit) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.audit[i]
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Close is a no-op.
func (m *MockStore) Close() error { return nil }
