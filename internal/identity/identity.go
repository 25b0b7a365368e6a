// ABOUTME: Installation identity used to gate analytics emission
// ABOUTME: Loaded once at startup from the settings store and immutable afterwards

// Package identity holds the installation identity of the admin shell.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/2389/admin-shell/internal/store"
)

// Setting keys persisted in the store.
const (
	SettingUUID              = "uuid"
	SettingTelemetryDisabled = "telemetry_disabled"
)

// Identity is the opaque installation identifier. The zero value is absent.
type Identity struct {
	UUID     string
	Disabled bool
}

// Enabled reports whether the identity is present and not explicitly disabled.
func (i Identity) Enabled() bool {
	return i.UUID != "" && !i.Disabled
}

// New generates a fresh installation identity.
func New() Identity {
	return Identity{UUID: uuid.NewString()}
}

// Parse validates s as a UUID and returns the identity for it.
func Parse(s string) (Identity, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Identity{}, fmt.Errorf("parsing installation uuid: %w", err)
	}
	return Identity{UUID: id.String()}, nil
}

// Load reads the identity from settings. A missing uuid yields the absent identity.
func Load(ctx context.Context, s store.SettingsStore) (Identity, error) {
	raw, err := s.GetSetting(ctx, SettingUUID)
	if errors.Is(err, store.ErrSettingNotFound) {
		return Identity{}, nil
	}
	if err != nil {
		return Identity{}, fmt.Errorf("reading %s: %w", SettingUUID, err)
	}

	id, err := Parse(raw)
	if err != nil {
		return Identity{}, err
	}

	disabled, err := s.GetSetting(ctx, SettingTelemetryDisabled)
	switch {
	case errors.Is(err, store.ErrSettingNotFound):
	case err != nil:
		return Identity{}, fmt.Errorf("reading %s: %w", SettingTelemetryDisabled, err)
	default:
		id.Disabled, _ = strconv.ParseBool(disabled)
	}
	return id, nil
}

// Ensure returns the stored identity, generating and persisting one when absent.
func Ensure(ctx context.Context, s store.SettingsStore) (Identity, error) {
	id, err := Load(ctx, s)
	if err != nil {
		return Identity{}, err
	}
	if id.UUID != "" {
		return id, nil
	}

	id = New()
	if err := s.SetSetting(ctx, SettingUUID, id.UUID); err != nil {
		return Identity{}, fmt.Errorf("storing %s: %w", SettingUUID, err)
	}
	return id, nil
}
