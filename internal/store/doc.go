// Package store provides persistent storage for the admin shell using SQLite.
//
// # Interfaces
//
//   - UserStore: console users (username + bcrypt password hash)
//   - RoleStore: role assignments consumed by auth.RoleAuthorizer
//   - SettingsStore: global key/value settings (installation uuid, telemetry opt-out)
//   - AuditStore: append-only log of sign-ins, failed sign-ins, sign-outs and bootstrap
//
// SQLiteStore implements all of them; MockStore is the in-memory twin used by
// tests across the repository.
//
// # Drivers
//
// Two database/sql drivers are linked in:
//
//	database:
//	  driver: "sqlite"   # modernc.org/sqlite (default, pure Go)
//	  driver: "sqlite3"  # github.com/mattn/go-sqlite3 (cgo)
//
// The schema is created on open and is idempotent.
//
// # Errors
//
// Lookups return sentinel errors (ErrUserNotFound, ErrSettingNotFound) that
// callers test with errors.Is.
package store
