package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store and the remote clients are opened on first use so that commands like setup and serve never touch them.
type Runner struct {
	config     *shared.Config
	configPath string
	ephemeral  bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	catalog    *catalog.Catalog
	now        func() time.Time

	storage store.Storage
	remote  services.FavoritesAPI
	auth    services.AuthAPI

	db     *sql.DB
	store  *store.Store
	ledger *favorites.Ledger
	client *favorites.Client
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Storage, Remote and Auth replace the SQLite store and the HTTP services when set.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Catalog    *catalog.Catalog
	Now        func() time.Time
	Storage    store.Storage
	Remote     services.FavoritesAPI
	Auth       services.AuthAPI
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		catalog:    opts.Catalog,
		now:        opts.Now,
		storage:    opts.Storage,
		remote:     opts.Remote,
		auth:       opts.Auth,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the local store in memory for this run",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// Before reads the global flags and loads the configuration file when it exists.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	r.ephemeral = cmd.Bool("ephemeral")

	path := cmd.String("config")
	if path == "" {
		return ctx, nil
	}
	r.configPath = path
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, eventsCommand, heartCommand, favoritesCommand, gateCommand,
		profileCommand, signInCommand, signUpCommand, signOutCommand, whoAmICommand,
		serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// open wires the local store, the ledger and the favorites client.
func (r *Runner) open() error {
	if r.store != nil {
		return nil
	}

	storage := r.storage
	switch {
	case storage != nil:
	case r.ephemeral:
		storage = store.NewMemoryStorage()
	default:
		db, err := shared.OpenMigrated(r.config.Store.Path, r.config.Store.MaxOpenConns, r.config.Store.MaxIdleConns)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		r.db = db
		storage = store.NewSQLiteStorage(db, r.logger)
	}

	if r.remote == nil || r.auth == nil {
		api := services.NewClient(services.ClientOpts{
			BaseURL:    r.config.API.BaseURL,
			HTTPClient: r.httpClient,
			Timeout:    r.config.API.Timeout(),
			RateLimit:  r.config.API.RateLimit,
			Token:      r.config.API.Token,
			Logger:     r.logger,
		})
		if r.remote == nil {
			r.remote = services.NewFavoritesService(api)
		}
		if r.auth == nil {
			r.auth = services.NewAuthService(api)
		}
	}

	r.store = store.New(storage, r.logger)
	r.ledger = favorites.NewLedger(r.store)
	r.client = favorites.NewClient(r.remote, favorites.ClientOpts{
		StaleAfter: r.config.Favorites.StaleAfter(),
		Now:        r.now,
		Logger:     r.logger,
	})
	return nil
}

// Close releases the SQLite handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// source picks the ledger or the signed-in user's favorites.
func (r *Runner) source() favorites.Source {
	return favorites.SelectSource(r.store, r.ledger, r.client)
}

// notifier prints toasts to the output and, when enabled, raises desktop notifications.
func (r *Runner) notifier() reconcile.Notifier {
	ns := reconcile.Notifiers{reconcile.NotifierFunc(r.printNotification)}
	if r.config.Notifications.Desktop {
		ns = append(ns, reconcile.NewDesktopNotifier(r.logger))
	}
	return ns
}

func (r *Runner) printNotification(n reconcile.Notification) {
	mark := "•"
	switch n.Level {
	case reconcile.LevelSuccess:
		mark = "✓"
	case reconcile.LevelError:
		mark = "✗"
	}
	if n.Description == "" {
		r.writePlain("%s %s\n", mark, n.Title)
		return
	}
	r.writePlain("%s %s: %s\n", mark, n.Title, n.Description)
}

func (r *Runner) authOpts(navigator reconcile.Navigator) reconcile.AuthScreenOpts {
	return reconcile.AuthScreenOpts{
		Store:     r.store,
		Ledger:    r.ledger,
		Auth:      r.auth,
		Migrator:  reconcile.NewMigrator(r.ledger, r.remote, r.client, r.logger),
		Catalog:   r.catalog,
		Notifier:  r.notifier(),
		Navigator: navigator,
		Now:       r.now,
		Logger:    r.logger,
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
