// ABOUTME: Store interface and data types for admin-shell persistence
// ABOUTME: Defines console users, role assignments, and global settings

package store

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a console user doesn't exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when creating a user with a taken username.
var ErrUsernameExists = errors.New("username already exists")

// ErrSettingNotFound is returned when a global setting has never been written.
var ErrSettingNotFound = errors.New("setting not found")

// User is a console user who can sign in to the admin shell.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash
	DisplayName  string
	CreatedAt    time.Time
}

// UserStore persists console users.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CountUsers(ctx context.Context) (int, error)
}

// RoleStore persists role assignments.
type RoleStore interface {
	AddRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
	ListRoles(ctx context.Context, userID string) ([]string, error)
}

// SettingsStore persists global key/value settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store combines every persistence concern of the shell.
type Store interface {
	UserStore
	RoleStore
	SettingsStore
	AuditStore
	Close() error
}

// Ensure implementations satisfy Store.
var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MockStore)(nil)
)
