package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
	"github.com/dmitrijs2005/authkeeper/internal/client/session"
	"github.com/dmitrijs2005/authkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	store       *session.Store
	db          *sql.DB
	Mode        Mode
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := credentials.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	repo := credentials.NewSQLiteRepository(db)
	store := session.NewStore()

	var log logging.Logger = logging.NewNopLogger()
	if c.Debug {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		log = logging.NewSlogLogger(slog.New(h))
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, repo,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(log),
		api.WithSessionExpiredHandler(func() {
			store.Dispatch(session.Action{Type: session.Logout})
			fmt.Println("Session expired, please log in again.")
		}),
	)

	as := services.NewAuthService(apiClient, repo, store, log)

	if err := as.Load(ctx); err != nil {
		fmt.Printf("Warning: could not restore session: %s\n", err.Error())
	}

	return &App{
		config:      c,
		authService: as,
		store:       store,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		_ = a.db.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.State().IsAuthenticated
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		fmt.Printf("Switched to %s mode\n", mode)
	}
}

// StartHealthWatcher probes server reachability on the given interval and
// flips the connectivity mode accordingly.
func (a *App) StartHealthWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
