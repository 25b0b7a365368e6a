// ABOUTME: Tests for the SQLite store implementation
// ABOUTME: Covers users, roles, settings, and driver selection

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(DriverModernc, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewSQLiteStore_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLiteStore("postgres", filepath.Join(t.TempDir(), "test.db"))
	require.Error(t, err)
}

func TestSQLiteStore_Users(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &User{
		ID:           "user-1",
		Username:     "admin",
		PasswordHash: "$2a$10$hash",
		DisplayName:  "Admin",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	t.Run("duplicate username", func(t *testing.T) {
		dup := *user
		dup.ID = "user-2"
		assert.ErrorIs(t, s.CreateUser(ctx, &dup), ErrUsernameExists)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "admin", got.Username)
		assert.Equal(t, "Admin", got.DisplayName)
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := s.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("count", func(t *testing.T) {
		n, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestSQLiteStore_Roles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &User{ID: "u1", Username: "u1", PasswordHash: "x", DisplayName: "U1", CreatedAt: time.Now()}))

	require.NoError(t, s.AddRole(ctx, "u1", "editor"))
	require.NoError(t, s.AddRole(ctx, "u1", "author"))
	require.NoError(t, s.AddRole(ctx, "u1", "editor"))

	roles, err := s.ListRoles(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "editor"}, roles)

	require.NoError(t, s.RemoveRole(ctx, "u1", "author"))
	roles, err = s.ListRoles(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, roles)

	roles, err = s.ListRoles(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestSQLiteStore_Settings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSetting(ctx, "uuid")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	require.NoError(t, s.SetSetting(ctx, "uuid", "first"))
	require.NoError(t, s.SetSetting(ctx, "uuid", "second"))

	v, err := s.GetSetting(ctx, "uuid")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}
