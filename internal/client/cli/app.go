package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/config"
	"github.com/WAVY91/front-project/internal/client/poller"
	"github.com/WAVY91/front-project/internal/client/services"
	"github.com/WAVY91/front-project/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer

	session   services.SessionManager
	auth      services.AuthService
	campaigns services.CampaignService
	donations services.DonationService
	checkout  services.CheckoutService
	ngos      services.NGOService
	contacts  services.ContactService
	tasks     *services.Tasks

	mu   sync.Mutex
	mode Mode
	view *poller.Group
}

// NewApp opens the local cache, restores the last session and cached
// collections, and wires the services against the backend API.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing cache database: %w", err)
	}

	store := cache.NewStore(db, log)
	session := services.NewSessionManager(store, log)
	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, session.Token, log)

	a := newApp(c, log, db, store, session, api)
	a.restore(ctx)
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, db *sql.DB, store *cache.Store, session services.SessionManager, api client.Client) *App {
	tasks := services.NewTasks(log, c.RequestTimeout)
	campaigns := services.NewCampaignService(api, store, log)
	donations := services.NewDonationService(api, store, log)
	ngos := services.NewNGOService(api, store, log)
	contacts := services.NewContactService(api, tasks, log)

	a := &App{
		config:    c,
		log:       log,
		db:        db,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		session:   session,
		auth:      services.NewAuthService(api, session, ngos, log),
		campaigns: campaigns,
		donations: donations,
		checkout:  services.NewCheckoutService(api, session, campaigns, donations, tasks, log),
		ngos:      ngos,
		contacts:  contacts,
		tasks:     tasks,
		view:      &poller.Group{},
	}

	session.OnLogout(func(ctx context.Context) {
		a.unmount()
		a.checkout.Cancel(ctx)
		campaigns.Reset(ctx)
		donations.Reset(ctx)
		ngos.Reset(ctx)
		contacts.Reset(ctx)
	})

	return a
}

func (a *App) restore(ctx context.Context) {
	if a.session.Restore(ctx) {
		if u, ok := a.session.Current(); ok {
			a.log.Info(ctx, "session restored", "user", u.Email, "role", string(u.Role))
		}
	}
	a.campaigns.Load(ctx)
	a.donations.Load(ctx)
	a.ngos.Load(ctx)
}

// Run starts the REPL and blocks until the user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to the donation marketplace CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close stops background work and releases the cache database.
func (a *App) Close() {
	a.unmount()
	a.tasks.Wait()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "closing cache database", "error", err)
		}
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// trackConnectivity is the poller result hook behind the prompt indicator.
// Errors other than an unreachable backend leave the mode as it is.
func (a *App) trackConnectivity(err error) {
	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
	}
}

func (a *App) status() string {
	s := ""
	if u, ok := a.session.Current(); ok {
		s = fmt.Sprintf("%s/%s ", u.Email, u.Role)
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// mount replaces the pollers of the current view with ps and starts them.
func (a *App) mount(ctx context.Context, ps ...poller.Runner) {
	a.unmount()

	g := &poller.Group{}
	for _, p := range ps {
		g.Add(p)
	}
	g.Start(ctx)

	a.mu.Lock()
	a.view = g
	a.mu.Unlock()
}

func (a *App) unmount() {
	a.mu.Lock()
	g := a.view
	a.view = &poller.Group{}
	a.mu.Unlock()

	g.Stop()
}
