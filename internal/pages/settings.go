// ABOUTME: Settings page with one view per section
// ABOUTME: /settings shows the application section; unknown sections are not found

package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/routepath"
	"github.com/2389/admin-shell/internal/router"
)

// DefaultSetting is shown at /settings.
const DefaultSetting = "application"

type settingsSection struct {
	id     string
	title  i18n.Descriptor
	fields func(sc *plugin.Context) []settingsField
}

type settingsField struct {
	Label string
	Value string
}

var settingsSections = []settingsSection{
	{
		id:    "application",
		title: i18n.Msg("app.components.SettingsPage.application", "Application"),
		fields: func(sc *plugin.Context) []settingsField {
			s := sc.Settings()
			label := func(id, def string) string { return sc.FormatMessage(i18n.Msg(id, def)) }
			return []settingsField{
				{Label: label("app.components.SettingsPage.edition", "Edition"), Value: s.ProjectType},
				{Label: label("app.components.SettingsPage.installationId", "Installation ID"), Value: orDash(s.InstallationID)},
				{Label: label("app.components.SettingsPage.usageData", "Usage data"), Value: onOff(s.TelemetryEnabled)},
				{Label: label("app.components.SettingsPage.tutorials", "Tutorials"), Value: onOff(s.ShowTutorials)},
				{Label: label("app.components.SettingsPage.installedPlugins", "Installed plugins"), Value: strconv.Itoa(sc.Plugins().Len())},
			}
		},
	},
	{
		id:    "internationalization",
		title: i18n.Msg("app.components.SettingsPage.internationalization", "Internationalization"),
		fields: func(sc *plugin.Context) []settingsField {
			return []settingsField{
				{Label: sc.FormatMessage(i18n.Msg("app.components.SettingsPage.locale", "Locale")), Value: orDash(sc.Settings().Locale)},
			}
		},
	},
}

type settingsLink struct {
	Title  string
	Href   string
	Active bool
}

type settingsData struct {
	Title    string
	Heading  string
	Sections []settingsLink
	Fields   []settingsField
}

// Settings renders the section named by the settingId parameter, or the
// default section when there is none.
func (p *Pages) Settings(_ context.Context, req *router.Request, sc *plugin.Context) (templ.Component, error) {
	id := req.Param("settingId")
	if id == "" {
		id = DefaultSetting
	}

	data := settingsData{
		Title: sc.FormatMessage(i18n.Msg("app.components.SettingsPage.title", "Settings")),
	}
	var current *settingsSection
	for i := range settingsSections {
		s := &settingsSections[i]
		if s.id == id {
			current = s
		}
		data.Sections = append(data.Sections, settingsLink{
			Title:  sc.FormatMessage(s.title),
			Href:   routepath.Absolute(routepath.Setting(s.id)),
			Active: s.id == id,
		})
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, id)
	}

	data.Heading = sc.FormatMessage(i18n.Descriptor{
		ID:             "app.components.SettingsPage.section",
		DefaultMessage: "Section: {setting}",
		Values:         map[string]any{"setting": sc.FormatMessage(current.title)},
	})
	data.Fields = current.fields(sc)
	return page("settings.html", data), nil
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
