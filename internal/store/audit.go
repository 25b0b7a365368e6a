// ABOUTME: Audit log of console access: sign-ins, failed sign-ins, sign-outs, bootstrap
// ABOUTME: Append-only; listed newest first with optional user/action filters

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditAction names an audited console action.
type AuditAction string

const (
	AuditLogin       AuditAction = "login"
	AuditLoginFailed AuditAction = "login_failed"
	AuditLogout      AuditAction = "logout"
	AuditBootstrap   AuditAction = "bootstrap"
)

// auditTimeLayout is fixed-width so timestamps sort as text.
const auditTimeLayout = "2006-01-02T15:04:05.000000000Z"

// AuditEntry is one audit log row.
type AuditEntry struct {
	ID        string
	UserID    string // empty for failed sign-ins of unknown users
	Username  string
	Action    AuditAction
	RemoteIP  string
	Timestamp time.Time
	Detail    map[string]any
}

// AuditFilter narrows ListAudit. Zero fields match everything.
type AuditFilter struct {
	UserID string
	Action AuditAction
	Since  time.Time
	Limit  int // default 100, max 1000
}

// AuditStore records console access.
type AuditStore interface {
	AppendAudit(ctx context.Context, e *AuditEntry) error
	ListAudit(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
}

// prepareAuditEntry fills in the id and timestamp when unset.
func prepareAuditEntry(e *AuditEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// normalizeAuditLimit applies default (100) and cap (1000).
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// AppendAudit appends an entry.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e *AuditEntry) error {
	prepareAuditEntry(e)

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO audit_log (id, user_id, username, action, remote_ip, ts, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Username,
		string(e.Action),
		e.RemoteIP,
		e.Timestamp.UTC().Format(auditTimeLayout),
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	s.logger.Debug("appended audit log", "id", e.ID, "username", e.Username, "action", e.Action)
	return nil
}

const auditLogQuery = `
	SELECT id, user_id, username, action, remote_ip, ts, detail_json
	FROM audit_log
	WHERE (? = '' OR user_id = ?)
	  AND (? = '' OR action = ?)
	  AND (? = '' OR ts >= ?)
	ORDER BY ts DESC
	LIMIT ?
`

// ListAudit returns matching entries, newest first.
func (s *SQLiteStore) ListAudit(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	var since string
	if !f.Since.IsZero() {
		since = f.Since.UTC().Format(auditTimeLayout)
	}
	action := string(f.Action)

	rows, err := s.db.QueryContext(ctx, auditLogQuery,
		f.UserID, f.UserID,
		action, action,
		since, since,
		normalizeAuditLimit(f.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var actionStr, tsStr string
		var detailJSON *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &actionStr, &e.RemoteIP, &tsStr, &detailJSON); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = AuditAction(actionStr)
		if e.Timestamp, err = time.Parse(auditTimeLayout, tsStr); err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		if detailJSON != nil {
			if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling detail: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
