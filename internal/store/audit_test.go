// ABOUTME: Tests for the console audit log
// ABOUTME: Runs the same cases against SQLiteStore and MockStore

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditStores(t *testing.T) map[string]AuditStore {
	return map[string]AuditStore{
		"sqlite": newTestStore(t),
		"mock":   NewMockStore(),
	}
}

func TestAudit_AppendFillsIDAndTimestamp(t *testing.T) {
	for name, s := range auditStores(t) {
		t.Run(name, func(t *testing.T) {
			e := &AuditEntry{Username: "alice", Action: AuditLoginFailed, Detail: map[string]any{"reason": "bad password"}}
			require.NoError(t, s.AppendAudit(context.Background(), e))
			assert.NotEmpty(t, e.ID)
			assert.False(t, e.Timestamp.IsZero())

			got, err := s.ListAudit(context.Background(), AuditFilter{})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "bad password", got[0].Detail["reason"])
		})
	}
}

func TestAudit_ListNewestFirstWithFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range auditStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			entries := []AuditEntry{
				{UserID: "u1", Username: "alice", Action: AuditLogin, Timestamp: base},
				{UserID: "u2", Username: "bob", Action: AuditLogin, Timestamp: base.Add(500 * time.Millisecond)},
				{UserID: "u1", Username: "alice", Action: AuditLogout, Timestamp: base.Add(2 * time.Second)},
			}
			for i := range entries {
				require.NoError(t, s.AppendAudit(ctx, &entries[i]))
			}

			all, err := s.ListAudit(ctx, AuditFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, AuditLogout, all[0].Action)
			assert.Equal(t, "bob", all[1].Username)

			mine, err := s.ListAudit(ctx, AuditFilter{UserID: "u1"})
			require.NoError(t, err)
			assert.Len(t, mine, 2)

			logins, err := s.ListAudit(ctx, AuditFilter{Action: AuditLogin, Since: base.Add(100 * time.Millisecond)})
			require.NoError(t, err)
			require.Len(t, logins, 1)
			assert.Equal(t, "u2", logins[0].UserID)

			limited, err := s.ListAudit(ctx, AuditFilter{Limit: 1})
			require.NoError(t, err)
			assert.Len(t, limited, 1)
		})
	}
}

func TestNormalizeAuditLimit(t *testing.T) {
	assert.Equal(t, 100, normalizeAuditLimit(0))
	assert.Equal(t, 1000, normalizeAuditLimit(5000))
	assert.Equal(t, 7, normalizeAuditLimit(7))
}
