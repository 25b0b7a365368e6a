// ABOUTME: First-user creation for a fresh installation
// ABOUTME: Validates credentials, hashes with bcrypt and grants super-admin

package console

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	// ErrAlreadyBootstrapped means at least one user exists.
	ErrAlreadyBootstrapped = errors.New("bootstrap already complete")

	// ErrInvalidCredentials wraps username/password validation failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,31}$`)

// validateUsername returns a message describing what is wrong, or "".
func validateUsername(username string) string {
	if len(username) < 3 {
		return "username must be at least 3 characters"
	}
	if len(username) > 32 {
		return "username must be at most 32 characters"
	}
	if !usernameRegex.MatchString(username) {
		return "username must start with a letter and contain only letters, numbers, and underscores"
	}
	return ""
}

// Bootstrap creates the first console user with the super-admin role.
// It refuses to run once any user exists.
func Bootstrap(ctx context.Context, st Store, username, password, displayName string) (*store.User, error) {
	if msg := validateUsername(username); msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, MinPasswordLength)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}
	if len(displayName) > 100 {
		return nil, fmt.Errorf("%w: display name exceeds maximum length of 100 characters", ErrInvalidCredentials)
	}

	count, err := st.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %d user(s) exist", ErrAlreadyBootstrapped, count)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if err := st.AddRole(ctx, user.ID, auth.RoleSuperAdmin); err != nil {
		return nil, fmt.Errorf("granting %s: %w", auth.RoleSuperAdmin, err)
	}
	if err := st.AppendAudit(ctx, &store.AuditEntry{
		UserID:   user.ID,
		Username: user.Username,
		Action:   store.AuditBootstrap,
	}); err != nil {
		return nil, fmt.Errorf("recording bootstrap: %w", err)
	}
	return user, nil
}
