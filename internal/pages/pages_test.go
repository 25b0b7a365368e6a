package pages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/router"
	"github.com/2389/admin-shell/internal/store"
	"github.com/2389/admin-shell/internal/telemetry"
)

type fixture struct {
	pages   *Pages
	sc      *plugin.Context
	users   *store.MockStore
	emitted []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg, err := plugin.Loader{}.Load()
	require.NoError(t, err)

	cat, err := i18n.Load("en")
	require.NoError(t, err)

	f := &fixture{users: store.NewMockStore()}
	f.sc = plugin.NewContext(plugin.ContextOptions{
		Emit:      func(event string, _ telemetry.Properties) { f.emitted = append(f.emitted, event) },
		Formatter: cat,
		Plugins:   reg,
		Settings: plugin.Settings{
			InstallationID:   "3f1b1c5e-0000-4000-8000-000000000000",
			ProjectType:      "Community",
			Locale:           "en",
			TelemetryEnabled: true,
		},
	})
	f.pages, err = New(plugin.NewDispatcher(reg), f.users)
	require.NoError(t, err)
	return f
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestHome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("anonymous welcome", func(t *testing.T) {
		comp, err := f.pages.Home(ctx, &router.Request{Path: "/"}, f.sc)
		require.NoError(t, err)
		html := renderString(t, comp)
		assert.Contains(t, html, "Welcome on board!")
		assert.Contains(t, html, "4 plugins installed")
		assert.Contains(t, html, "/admin/plugins/users-permissions")
	})

	t.Run("named welcome", func(t *testing.T) {
		comp, err := f.pages.Home(ctx, &router.Request{Principal: &auth.Principal{Username: "ada"}}, f.sc)
		require.NoError(t, err)
		assert.Contains(t, renderString(t, comp), "Welcome ada!")
	})
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.CreateUser(ctx, &store.User{
		ID: "u1", Username: "ada", DisplayName: "Ada Lovelace",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, f.users.AppendAudit(ctx, &store.AuditEntry{
		UserID: "u1", Username: "ada", Action: store.AuditLogin, RemoteIP: "198.51.100.7",
	}))

	comp, err := f.pages.Profile(ctx, &router.Request{Principal: &auth.Principal{
		ID: "u1", Username: "ada", Roles: []string{"editor", "author"},
	}}, f.sc)
	require.NoError(t, err)
	html := renderString(t, comp)
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "editor, author")
	assert.Contains(t, html, "2024-03-01")
	assert.Contains(t, html, "Recent activity")
	assert.Contains(t, html, "198.51.100.7")

	t.Run("unknown user shows session data", func(t *testing.T) {
		comp, err := f.pages.Profile(ctx, &router.Request{Principal: &auth.Principal{ID: "ghost", Username: "ghost"}}, f.sc)
		require.NoError(t, err)
		assert.Contains(t, renderString(t, comp), "ghost")
	})

	t.Run("no principal", func(t *testing.T) {
		_, err := f.pages.Profile(ctx, &router.Request{}, f.sc)
		assert.ErrorIs(t, err, auth.ErrNoPrincipal)
	})
}

func TestPluginPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comp, err := f.pages.Plugin(ctx, &router.Request{
		Params: map[string]string{"pluginId": "users-permissions"},
		Rest:   "/providers",
	}, f.sc)
	require.NoError(t, err)
	assert.Contains(t, renderString(t, comp), "Configure the authentication providers.")

	_, err = f.pages.Plugin(ctx, &router.Request{Params: map[string]string{"pluginId": "nope"}, Rest: "/"}, f.sc)
	assert.ErrorIs(t, err, plugin.ErrPluginNotFound)
}

func TestInstalledPlugins(t *testing.T) {
	f := newFixture(t)
	comp, err := f.pages.InstalledPlugins(context.Background(), &router.Request{}, f.sc)
	require.NoError(t, err)
	html := renderString(t, comp)
	for _, id := range []string{"content-manager", "documentation", "upload", "users-permissions"} {
		assert.Contains(t, html, `data-plugin="`+id+`"`)
	}
	assert.Contains(t, html, "<strong>JWT</strong>")
}

func TestMarketplace(t *testing.T) {
	f := newFixture(t)
	comp, err := f.pages.Marketplace(context.Background(), &router.Request{}, f.sc)
	require.NoError(t, err)
	html := renderString(t, comp)

	assert.Equal(t, []string{EventMarketplaceVisited}, f.emitted)
	assert.Contains(t, html, "<strong>Swagger UI</strong>")
	assert.Contains(t, html, `marketplace-item installed" data-plugin="documentation"`)
	assert.Contains(t, html, `marketplace-item" data-plugin="graphql"`)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("default section", func(t *testing.T) {
		comp, err := f.pages.Settings(ctx, &router.Request{}, f.sc)
		require.NoError(t, err)
		html := renderString(t, comp)
		assert.Contains(t, html, "Section: Application")
		assert.Contains(t, html, "Community")
		assert.Contains(t, html, "3f1b1c5e-0000-4000-8000-000000000000")
	})

	t.Run("named section", func(t *testing.T) {
		comp, err := f.pages.Settings(ctx, &router.Request{Params: map[string]string{"settingId": "internationalization"}}, f.sc)
		require.NoError(t, err)
		assert.Contains(t, renderString(t, comp), "Section: Internationalization")
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := f.pages.Settings(ctx, &router.Request{Params: map[string]string{"settingId": "email"}}, f.sc)
		assert.ErrorIs(t, err, ErrUnknownSetting)
	})

	t.Run("translated", func(t *testing.T) {
		fr, err := i18n.Load("fr")
		require.NoError(t, err)
		sc := plugin.NewContext(plugin.ContextOptions{Formatter: fr, Plugins: f.sc.Plugins()})

		comp, err := f.pages.Settings(ctx, &router.Request{Params: map[string]string{"settingId": "internationalization"}}, sc)
		require.NoError(t, err)
		html := renderString(t, comp)
		assert.Contains(t, html, "Section : Internationalisation")
		assert.Contains(t, html, "Langue")
		assert.NotContains(t, html, "Internationalization")
	})
}

func TestNotFoundAndRestricted(t *testing.T) {
	f := newFixture(t)
	comp, err := f.pages.NotFound(context.Background(), &router.Request{}, f.sc)
	require.NoError(t, err)
	html := renderString(t, comp)
	assert.Contains(t, html, "Not Found")
	assert.Contains(t, html, `href="/admin/"`)

	assert.Contains(t, renderString(t, Restricted(f.sc)), "permissions to access this page")
}

func TestParseMarketplace(t *testing.T) {
	_, err := parseMarketplace("plugins = 3")
	assert.Error(t, err)

	listings, err := LoadMarketplace()
	require.NoError(t, err)
	assert.NotEmpty(t, listings)
}
