// ABOUTME: Embeds the console's HTML templates into the binary
// ABOUTME: Provides templateFS for the login page

package console

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
