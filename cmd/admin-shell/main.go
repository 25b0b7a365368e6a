// ABOUTME: Entry point for the admin-shell console server
// ABOUTME: serve, bootstrap, health and plugin manifest validation subcommands

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/config"
	"github.com/2389/admin-shell/internal/console"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/identity"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/routepath"
	"github.com/2389/admin-shell/internal/shell"
	"github.com/2389/admin-shell/internal/store"
	"github.com/2389/admin-shell/internal/telemetry"
	"github.com/2389/admin-shell/internal/tracing"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _       _           _          _ _
  __ _| |_ __ (_)_ __  ___| |__   ___| | |
 / _' | | '_ \| | '_ \/ __| '_ \ / _ \ | |
| (_| | | | | | | | | \__ \ | | |  __/ | |
 \__,_|_|_| |_|_|_| |_|___/_| |_|\___|_|_|
`

// getConfigPath returns the config file path, or "" to run on defaults.
// Priority: ADMIN_SHELL_CONFIG > XDG_CONFIG_HOME/admin-shell/config.yaml > ~/.config/admin-shell/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ADMIN_SHELL_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	p := filepath.Join(configDir, "admin-shell", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func usage() {
	fmt.Println("Usage: admin-shell <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                                  Start the console server")
	fmt.Println("  bootstrap --username U --password P    Create the first super-admin user")
	fmt.Println("  health                                 Check server health")
	fmt.Println("  plugins validate FILE...               Validate plugin manifests")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "bootstrap":
		err = runBootstrap(ctx, os.Args[2:])
	case "health":
		err = runHealth(ctx)
	case "plugins":
		err = runPlugins(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	green.Print("    ▶ ")
	if configPath == "" {
		fmt.Println("Config:    (defaults + environment)")
	} else {
		fmt.Printf("Config:    %s\n", configPath)
	}
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s%s\n", cfg.Server.HTTPAddr, routepath.Prefix)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s (%s)\n", cfg.Database.Path, cfg.Database.Driver)
	if cfg.Shell.ShowTutorials {
		green.Print("    ▶ ")
		yellow.Println("Tutorials enabled")
	}
	fmt.Println()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := identity.Load(ctx, st)
	if err != nil {
		return fmt.Errorf("loading installation identity: %w", err)
	}
	if cfg.Telemetry.Disabled {
		id.Disabled = true
	}

	emitter := telemetry.NewEmitter(id, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ProjectType: cfg.Shell.ProjectType,
		Timeout:     cfg.Telemetry.Timeout,
	})

	catalog, err := i18n.Load(cfg.I18n.Locale)
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	plugins, err := plugin.Loader{
		Dir:          cfg.Plugins.Dir,
		SkipBuiltins: cfg.Plugins.SkipBuiltins,
		Disabled:     cfg.Plugins.Disabled,
	}.Load()
	if err != nil {
		return fmt.Errorf("loading plugins: %w", err)
	}

	sh, err := shell.New(shell.Options{
		Identity:      id,
		Emitter:       emitter,
		Plugins:       plugins,
		Authorizer:    auth.NewRoleAuthorizer(st, nil),
		Formatter:     catalog,
		Users:         st,
		ProjectType:   cfg.Shell.ProjectType,
		ShowTutorials: cfg.Shell.ShowTutorials,
		Locale:        catalog.Locale(),
		Title:         cfg.Shell.Title,
	})
	if err != nil {
		return fmt.Errorf("creating shell: %w", err)
	}
	if err := sh.Mount(); err != nil {
		return fmt.Errorf("mounting shell: %w", err)
	}

	c := console.New(sh, st, auth.NewSessionTokens([]byte(cfg.Auth.JWTSecret)), catalog, console.Config{
		SessionTTL:    cfg.Auth.SessionTTL,
		SecureCookies: cfg.Auth.SecureCookies,
		Locale:        catalog.Locale(),
	})
	mux := http.NewServeMux()
	c.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting admin-shell",
		"http_addr", cfg.Server.HTTPAddr,
		"plugins", plugins.Len(),
		"locale", catalog.Locale(),
		"telemetry", id.Enabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := sh.Unmount(); err != nil {
		logger.Warn("unmounting shell", "error", err)
	}
	emitter.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("flushing traces", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

func runBootstrap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	username := fs.String("username", "", "username for the first super-admin")
	password := fs.String("password", "", "password (or ADMIN_SHELL_BOOTSTRAP_PASSWORD)")
	displayName := fs.String("name", "", "display name (defaults to username)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_SHELL_BOOTSTRAP_PASSWORD")
	}
	if *username == "" || *password == "" {
		return errors.New("--username and --password are required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	id, err := identity.Ensure(ctx, st)
	if err != nil {
		return fmt.Errorf("installation identity: %w", err)
	}
	green.Printf("  ✓ Installation: %s\n", id.UUID)

	user, err := console.Bootstrap(ctx, st, *username, *password, *displayName)
	if err != nil {
		return err
	}
	green.Printf("  ✓ Created user: %s\n", user.Username)

	fmt.Println()
	cyan.Println("  Super admin")
	cyan.Println("  -----------")
	fmt.Printf("  ID:           %s\n", user.ID)
	fmt.Printf("  Username:     %s\n", user.Username)
	fmt.Printf("  Display Name: %s\n", user.DisplayName)
	fmt.Printf("  Roles:        %s\n", auth.RoleSuperAdmin)
	fmt.Println()
	fmt.Println("    admin-shell serve    # start the console")
	fmt.Println()
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.HTTPAddr
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	url := fmt.Sprintf("http://%s/health", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runPlugins(args []string) error {
	if len(args) < 2 || args[0] != "validate" {
		return errors.New("usage: admin-shell plugins validate FILE...")
	}

	logger := stderrLogger()
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	var failed int
	for _, path := range args[1:] {
		m, err := plugin.LoadManifestFile(path)
		if err == nil {
			_, err = plugin.FromManifest(m)
		}
		if err != nil {
			failed++
			red.Printf("  ✗ %s: %v\n", path, err)
			logger.Debug("manifest rejected", "path", path, "error", err)
			continue
		}
		green.Printf("  ✓ %s (%s %s)\n", path, m.ID, m.Version)
	}

	if failed > 0 {
		return fmt.Errorf("%d manifest(s) invalid", failed)
	}
	return nil
}
