// ABOUTME: Console HTTP handlers: authentication, sessions and shell hand-off
// ABOUTME: Registers Go 1.22 method patterns on a ServeMux like the rest of the server

package console

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389/admin-shell/internal/assets"
	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/routepath"
	"github.com/2389/admin-shell/internal/shell"
	"github.com/2389/admin-shell/internal/store"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "admin_shell_session"

	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "admin_shell_csrf"

	// DefaultSessionTTL is how long sessions last when not configured
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// dummyHash keeps login timing constant for unknown users.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type csrfContextKey struct{}

// Config holds console options
type Config struct {
	SessionTTL    time.Duration
	SecureCookies bool
	Locale        string
}

// Store is what the console needs from persistence.
type Store interface {
	store.UserStore
	store.RoleStore
	store.AuditStore
}

// Console handles the console's HTTP routes.
type Console struct {
	shell     *shell.Shell
	store     Store
	tokens    *auth.SessionTokens
	formatter i18n.Formatter
	config    Config
	tracer    trace.Tracer
	logger    *slog.Logger
}

// New creates the console handler.
func New(sh *shell.Shell, st Store, tokens *auth.SessionTokens, formatter i18n.Formatter, cfg Config) *Console {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if formatter == nil {
		formatter = i18n.Nop{}
	}
	return &Console{
		shell:     sh,
		store:     st,
		tokens:    tokens,
		formatter: formatter,
		config:    cfg,
		tracer:    otel.Tracer("github.com/2389/admin-shell/internal/console"),
		logger:    slog.Default().With("component", "console"),
	}
}

// RegisterRoutes registers all console routes on the given mux
func (c *Console) RegisterRoutes(mux *http.ServeMux) {
	// Public
	mux.HandleFunc("GET "+routepath.Login, c.handleLoginPage)
	mux.HandleFunc("POST "+routepath.Login, c.handleLogin)
	mux.Handle("GET "+routepath.Static, http.StripPrefix(routepath.Static, assets.FileServer()))
	mux.HandleFunc("GET /health", c.handleHealth)

	// Authenticated
	mux.HandleFunc("POST "+routepath.Logout, c.requireAuth(c.handleLogout))
	mux.HandleFunc("GET "+routepath.Prefix+"/", c.requireAuth(c.handleShell))
	mux.HandleFunc("GET "+routepath.Prefix, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routepath.Prefix+"/", http.StatusMovedPermanently)
	})

	c.logger.Info("console routes registered", "prefix", routepath.Prefix)
}

// requireAuth wraps a handler to require a valid session
func (c *Console) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := c.principalFromSession(r)
		if err != nil {
			c.logger.Debug("unauthenticated request", "path", r.URL.Path, "error", err)
			http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

// principalFromSession resolves the session cookie into a principal
func (c *Console) principalFromSession(r *http.Request) (*auth.Principal, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}

	userID, err := c.tokens.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := c.store.GetUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	roles, err := c.store.ListRoles(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	return &auth.Principal{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Roles:       roles,
	}, nil
}

func csrfFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// ensureCSRFToken generates a CSRF token if not present and adds it to context
func (c *Console) ensureCSRFToken(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, cookie.Value)), cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		c.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // fails validation
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     routepath.Prefix,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteStrictMode,
	})

	return r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)), token
}

// validateCSRF checks the CSRF token from form against cookie
func (c *Console) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	if formToken == "" {
		formToken = r.Header.Get("X-CSRF-Token")
	}

	return formToken != "" && formToken == cookie.Value
}

func (c *Console) secure(r *http.Request) bool {
	return c.config.SecureCookies || r.TLS != nil
}

// createSession issues a session token and sets the cookie
func (c *Console) createSession(w http.ResponseWriter, r *http.Request, userID string) error {
	token, expiresAt, err := c.tokens.Issue(userID, c.config.SessionTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     routepath.Prefix,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *Console) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleLoginPage renders the login page
func (c *Console) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := c.principalFromSession(r); err == nil {
		http.Redirect(w, r, routepath.Absolute(routepath.Home), http.StatusSeeOther)
		return
	}

	_, csrfToken := c.ensureCSRFToken(w, r)
	c.renderLogin(w, http.StatusOK, "", csrfToken)
}

// handleLogin processes login form submission
func (c *Console) handleLogin(w http.ResponseWriter, r *http.Request) {
	fail := func(status int, msg string) {
		_, csrfToken := c.ensureCSRFToken(w, r)
		c.renderLogin(w, status, msg, csrfToken)
	}

	if err := r.ParseForm(); err != nil {
		fail(http.StatusBadRequest, "Invalid form data")
		return
	}
	if !c.validateCSRF(r) {
		fail(http.StatusForbidden, "Invalid request, please try again")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		fail(http.StatusBadRequest, "Username and password required")
		return
	}

	invalid := c.formatter.FormatMessage(i18n.Msg("Auth.form.error.invalid", "Invalid username or password"))

	user, err := c.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			c.audit(r, &store.AuditEntry{Username: username, Action: store.AuditLoginFailed,
				Detail: map[string]any{"reason": "unknown user"}})
			fail(http.StatusUnauthorized, invalid)
			return
		}
		c.logger.Error("failed to get user", "error", err)
		fail(http.StatusInternalServerError, "An error occurred")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.audit(r, &store.AuditEntry{UserID: user.ID, Username: user.Username, Action: store.AuditLoginFailed,
			Detail: map[string]any{"reason": "bad password"}})
		fail(http.StatusUnauthorized, invalid)
		return
	}

	if err := c.createSession(w, r, user.ID); err != nil {
		c.logger.Error("failed to create session", "error", err)
		fail(http.StatusInternalServerError, "An error occurred")
		return
	}

	c.audit(r, &store.AuditEntry{UserID: user.ID, Username: user.Username, Action: store.AuditLogin})
	c.shell.RecordAccess()
	c.logger.Info("console login successful", "username", username)
	http.Redirect(w, r, routepath.Absolute(routepath.Home), http.StatusSeeOther)
}

// handleLogout clears the session and CSRF cookies
func (c *Console) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil && !c.validateCSRF(r) {
		c.logger.Warn("logout request with invalid CSRF token")
	}

	p := auth.MustFromContext(r.Context())
	c.audit(r, &store.AuditEntry{UserID: p.ID, Username: p.Username, Action: store.AuditLogout})

	for _, name := range []string{SessionCookieName, CSRFCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     routepath.Prefix,
			MaxAge:   -1,
			HttpOnly: true,
		})
	}

	http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
}

// handleShell renders a navigation through the shell
func (c *Console) handleShell(w http.ResponseWriter, r *http.Request) {
	r, _ = c.ensureCSRFToken(w, r)
	principal := auth.MustFromContext(r.Context())
	path := routepath.Relative(r.URL.Path)

	ctx, span := c.tracer.Start(r.Context(), "console.navigate",
		trace.WithAttributes(attribute.String("shell.path", path)))
	defer span.End()

	page, err := c.shell.Render(ctx, shell.Request{
		Path:      path,
		Principal: principal,
		CSRFToken: csrfFromContext(r.Context()),
	})
	if err != nil {
		c.logger.Error("shell unavailable", "path", path, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := page.Component.Render(ctx, &buf); err != nil {
		c.logger.Error("failed to render page", "path", path, "route", page.Route, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(
		attribute.String("shell.route", page.Route),
		attribute.Int("http.status_code", page.Status),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.Status)
	_, _ = buf.WriteTo(w)
}

// audit records e; failures are logged and otherwise ignored.
func (c *Console) audit(r *http.Request, e *store.AuditEntry) {
	e.RemoteIP = remoteIP(r)
	if err := c.store.AppendAudit(r.Context(), e); err != nil {
		c.logger.Warn("failed to append audit entry", "action", e.Action, "error", err)
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type loginData struct {
	Lang      string
	Title     string
	Heading   string
	Submit    string
	Error     string
	CSRFToken string
	Action    string
	StaticURL string
}

var loginTmpl = template.Must(template.ParseFS(templateFS, "templates/login.html"))

// renderLogin renders the login page
func (c *Console) renderLogin(w http.ResponseWriter, status int, errorMsg, csrfToken string) {
	lang := c.config.Locale
	if lang == "" {
		lang = i18n.DefaultLocale
	}
	data := loginData{
		Lang:      lang,
		Title:     "Login",
		Heading:   c.formatter.FormatMessage(i18n.Msg("Auth.form.welcome.title", "Welcome!")),
		Submit:    c.formatter.FormatMessage(i18n.Msg("Auth.form.button.login", "Log in")),
		Error:     errorMsg,
		CSRFToken: csrfToken,
		Action:    routepath.Login,
		StaticURL: routepath.Static,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginTmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render login page", "error", err)
	}
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
