// ABOUTME: Role assignment store methods
// ABOUTME: Roles map users to permission grants evaluated by the authorizer

package store

import (
	"context"
	"fmt"
	"time"
)

// AddRole assigns a role to a user. Adding an existing role succeeds silently.
func (s *SQLiteStore) AddRole(ctx context.Context, userID, role string) error {
	query := `
		INSERT OR IGNORE INTO user_roles (user_id, role, created_at)
		VALUES (?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, role, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("adding role: %w", err)
	}

	s.logger.Debug("added role", "user_id", userID, "role", role)
	return nil
}

// RemoveRole removes a role from a user. Removing a missing role succeeds silently.
func (s *SQLiteStore) RemoveRole(ctx context.Context, userID, role string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ? AND role = ?`, userID, role); err != nil {
		return fmt.Errorf("removing role: %w", err)
	}

	s.logger.Debug("removed role", "user_id", userID, "role", role)
	return nil
}

// ListRoles returns the roles assigned to a user, sorted by name.
func (s *SQLiteStore) ListRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}
	return roles, nil
}
