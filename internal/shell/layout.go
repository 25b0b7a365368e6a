// ABOUTME: Page chrome around every shell navigation
// ABOUTME: Left menu, top-right user area, header, content and optional onboarding videos

package shell

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/routepath"
)

//go:embed templates/layout.html
var templateFS embed.FS

var layoutTmpl = template.Must(template.ParseFS(templateFS, "templates/layout.html"))

// Video is an onboarding tutorial.
type Video struct {
	Title    string
	URL      string
	Duration string
}

// OnboardingVideos are shown when tutorials are enabled.
var OnboardingVideos = []Video{
	{Title: "Create a collection type", URL: "https://www.youtube.com/watch?v=VC05qQ8WPxo", Duration: "2:45"},
	{Title: "Add content to your collection", URL: "https://www.youtube.com/watch?v=e8HcLmIi9vQ", Duration: "1:30"},
	{Title: "Fetch content with the API", URL: "https://www.youtube.com/watch?v=Y3IPUZ2N8-A", Duration: "2:10"},
	{Title: "Manage roles and permissions", URL: "https://www.youtube.com/watch?v=Jg6RMTFz4Mw", Duration: "3:05"},
}

type layoutData struct {
	Lang            string
	Title           string
	StaticURL       string
	Nav             template.HTML
	Content         template.HTML
	User            string
	ProfileHref     string
	LogoutURL       string
	LogoutLabel     string
	CSRFToken       string
	Onboarding      []Video
	OnboardingTitle string
}

type layout struct {
	nav       templ.Component
	content   templ.Component
	principal *auth.Principal
	csrfToken string
	tutorials bool
	formatter i18n.Formatter
	lang      string
	title     string
}

// Render implements templ.Component.
func (l layout) Render(ctx context.Context, w io.Writer) error {
	nav, err := templ.ToGoHTML(ctx, l.nav)
	if err != nil {
		return fmt.Errorf("rendering navigation: %w", err)
	}
	content, err := templ.ToGoHTML(ctx, l.content)
	if err != nil {
		return fmt.Errorf("rendering content: %w", err)
	}

	data := layoutData{
		Lang:        l.lang,
		Title:       l.title,
		StaticURL:   routepath.Static,
		Nav:         nav,
		Content:     content,
		ProfileHref: routepath.Absolute(routepath.Profile),
		LogoutURL:   routepath.Logout,
		LogoutLabel: l.formatter.FormatMessage(i18n.Msg("app.components.Logout.logout", "Logout")),
		CSRFToken:   l.csrfToken,
	}
	if l.principal != nil {
		data.User = l.principal.DisplayName
		if data.User == "" {
			data.User = l.principal.Username
		}
	}
	if l.tutorials {
		data.Onboarding = OnboardingVideos
		data.OnboardingTitle = l.formatter.FormatMessage(i18n.Msg("app.components.Onboarding.title", "Get started videos"))
	}
	return layoutTmpl.Execute(w, data)
}
