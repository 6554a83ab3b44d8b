package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mkarev/healthpulse/internal/client/api"
	"github.com/mkarev/healthpulse/internal/client/config"
	"github.com/mkarev/healthpulse/internal/client/services"
	"github.com/mkarev/healthpulse/internal/client/session"
	"github.com/mkarev/healthpulse/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config    *config.Config
	bootstrap services.BootstrapService
	login     services.LoginService
	store     session.Store
	log       logging.Logger
	reader    *bufio.Reader
	userName  string
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := session.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	base, err := url.Parse(cfg.ServerBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server base URL %q: %w", cfg.ServerBaseURL, err)
	}

	apiClient := api.NewHTTPClient(&http.Client{}, *base, cfg.RequestTimeout)
	store := session.NewSQLiteStore(db)

	return &App{
		config:    cfg,
		bootstrap: services.NewBootstrapService(apiClient, store, log),
		login:     services.NewLoginService(apiClient, store, log),
		store:     store,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run performs the startup session check and either greets the returning
// user or shows the login form, then hands control to the command loop.
func (a *App) Run(ctx context.Context) error {
	decision, err := a.bootstrap.Bootstrap(ctx)
	if err != nil {
		a.log.Warn(ctx, "session check failed", "error", err)
	}

	if decision == services.DecisionRedirect {
		if sess, loadErr := a.store.Load(ctx); loadErr == nil && sess != nil {
			a.userName = sess.Username()
		}
		if a.userName != "" {
			printlnFn("Welcome back, " + a.userName + "!")
		} else {
			printlnFn("Welcome back!")
		}
	} else {
		if err := a.LoginForm(ctx); err != nil {
			return err
		}
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
	return nil
}

// Whoami prints the stored user record holder and, when the access token is
// a JWT, its expiry.
func (a *App) Whoami(ctx context.Context) error {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		printlnFn("No session is stored on this device.")
		return nil
	}

	name := sess.Username()
	if name == "" {
		name = "(unknown)"
	}
	printlnFn("Logged in as " + name)

	if exp, ok := sess.ExpiresAt(); ok {
		printlnFn("Token expires at " + exp.Local().Format(time.RFC1123))
	}
	return nil
}

// Logout clears the stored session and drops back to the login form on the
// next login command.
func (a *App) Logout(ctx context.Context) error {
	if err := a.login.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}
