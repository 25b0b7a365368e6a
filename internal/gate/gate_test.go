package gate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/admin-shell/internal/auth"
)

func fixed(d auth.Decision, err error) (auth.Authorizer, *int) {
	calls := 0
	return auth.AuthorizerFunc(func(context.Context, *auth.Principal, auth.PermissionSet) (auth.Decision, error) {
		calls++
		return d, err
	}), &calls
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestCanEnter(t *testing.T) {
	ctx := context.Background()
	p := &auth.Principal{ID: "u1"}

	t.Run("empty set skips the authorizer", func(t *testing.T) {
		authz, calls := fixed(auth.Deny, nil)
		g := New(authz)
		assert.True(t, g.CanEnter(ctx, p, nil))
		assert.True(t, g.CanEnter(ctx, nil, auth.PermissionSet{}))
		assert.Equal(t, 0, *calls)
	})

	tests := []struct {
		name     string
		decision auth.Decision
		err      error
		want     bool
	}{
		{"allow", auth.Allow, nil, true},
		{"deny", auth.Deny, nil, false},
		{"error denies", auth.Allow, errors.New("store down"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authz, calls := fixed(tt.decision, tt.err)
			g := New(authz)
			assert.Equal(t, tt.want, g.CanEnter(ctx, p, auth.MarketplaceMain))
			assert.Equal(t, 1, *calls)
		})
	}
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	fallback := text("restricted")

	t.Run("denied never builds the subtree", func(t *testing.T) {
		authz, _ := fixed(auth.Deny, nil)
		built := false
		comp, ok, err := New(authz).Guard(ctx, &auth.Principal{ID: "u"}, auth.MarketplaceMain, fallback, func() (templ.Component, error) {
			built = true
			return text("secret"), nil
		})

		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, built)
		assert.Equal(t, "restricted", renderString(t, comp))
	})

	t.Run("builder errors pass through", func(t *testing.T) {
		authz, _ := fixed(auth.Allow, nil)
		boom := errors.New("boom")
		_, ok, err := New(authz).Guard(ctx, nil, nil, fallback, func() (templ.Component, error) {
			return nil, boom
		})
		assert.True(t, ok)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("allowed builds the subtree", func(t *testing.T) {
		authz, _ := fixed(auth.Allow, nil)
		comp, ok, err := New(authz).Guard(ctx, &auth.Principal{ID: "u"}, auth.MarketplaceMain, fallback, func() (templ.Component, error) {
			return text("secret"), nil
		})

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "secret", renderString(t, comp))
	})
}

func TestCanEnter_RoleAuthorizer(t *testing.T) {
	g := New(auth.NewRoleAuthorizer(nil, nil))
	ctx := context.Background()

	assert.True(t, g.CanEnter(ctx, &auth.Principal{ID: "a", Roles: []string{auth.RoleSuperAdmin}}, auth.MarketplaceMain))
	assert.False(t, g.CanEnter(ctx, &auth.Principal{ID: "e", Roles: []string{"editor"}}, auth.MarketplaceMain))
	assert.False(t, g.CanEnter(ctx, nil, auth.MarketplaceMain))
}
