package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/crow-router/crow/internal/adapters/api"
	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/adapters/metrics"
	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/application/search/commands"
	"github.com/crow-router/crow/internal/application/search/queries"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/internal/infrastructure/config"
	"github.com/crow-router/crow/internal/infrastructure/database"
	infralog "github.com/crow-router/crow/internal/infrastructure/logging"
)

// app holds everything one CLI invocation needs
type app struct {
	cfg       *config.Config
	logger    logging.Logger
	logCloser io.Closer

	db          *gorm.DB
	coordRepo   *persistence.GormCoordinateRepository
	adjRepo     *persistence.GormAdjacencyRepository
	routeRepo   routing.RouteRepository
	directory   system.DirectoryClient
	caches      *graph.CacheContext
	monitor     *search.Monitor
	collectors  *metrics.Collectors
	mediator    mediator.Mediator
	preferences *config.Preferences
}

// appOptions lets commands override configuration before wiring
type appOptions struct {
	maxExpansions int
	directory     system.DirectoryClient
}

// newApp loads configuration and wires every component:
// config → logging → metrics → database → repositories → caches → engine → mediator
func newApp(opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return wireApp(cfg, opts)
}

func wireApp(cfg *config.Config, opts appOptions) (*app, error) {
	logger, closer, err := infralog.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, logCloser: closer}

	collectors, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.collectors = collectors

	var cacheOpts graph.CacheOptions
	if cfg.Database.Enabled() {
		db, err := database.Open(&cfg.Database)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		a.coordRepo = persistence.NewGormCoordinateRepository(db)
		a.adjRepo = persistence.NewGormAdjacencyRepository(db)
		a.routeRepo = persistence.NewGormRouteRepository(db)
		cacheOpts.CoordinateRepo = a.coordRepo
		cacheOpts.AdjacencyRepo = a.adjRepo
	}

	a.directory = opts.directory
	if a.directory == nil {
		a.directory = api.NewArdentClientWithConfig(cfg.Directory, shared.NewRealClock(), logger)
	}

	cacheOpts.JumpRange = system.JumpRange{Radius: cfg.Routing.JumpRadius, Tolerance: cfg.Routing.Tolerance}
	cacheOpts.Logger = logger
	a.caches = graph.NewCacheContext(a.directory, cacheOpts)

	maxExpansions := cfg.Routing.MaxExpansions
	if opts.maxExpansions >= 0 {
		maxExpansions = opts.maxExpansions
	}
	a.monitor = search.NewMonitor()
	engine := search.NewEngine(a.caches.Coordinates, a.caches.Adjacency, a.monitor, search.EngineConfig{
		MaxExpansions: maxExpansions,
	})
	discovery := search.NewTargetDiscovery(a.directory, a.caches.Coordinates)

	m := mediator.NewMediator()
	if collectors != nil {
		m.Use(metrics.PrometheusMiddleware(collectors.Requests))
	}
	optimizer := search.NewOptimizer(engine, a.monitor, cfg.Routing.MaxAttempts)
	history := search.NewHistoryRecorder(a.routeRepo, a.caches.Coordinates, nil)
	err = errors.Join(
		mediator.RegisterHandler[*commands.FindRouteCommand](m,
			commands.NewFindRouteHandler(optimizer, discovery, history, a.caches.Coordinates)),
		mediator.RegisterHandler[*queries.ListTargetsQuery](m, queries.NewListTargetsHandler(discovery)),
		mediator.RegisterHandler[*queries.GetCoordinateQuery](m, queries.NewGetCoordinateHandler(a.caches.Coordinates)),
		mediator.RegisterHandler[*queries.RouteHistoryQuery](m, queries.NewRouteHistoryHandler(a.routeRepo)),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}
	a.mediator = m

	if handler, err := config.NewPreferencesHandler(); err == nil {
		if prefs, err := handler.Load(); err == nil {
			a.preferences = prefs
		}
	}
	if a.preferences == nil {
		a.preferences = &config.Preferences{}
	}

	return a, nil
}

// context attaches the app logger for application code
func (a *app) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

// metricsServer returns the scrape server, or nil when metrics are disabled
func (a *app) metricsServer() *metrics.Server {
	if a.collectors == nil {
		return nil
	}
	return metrics.NewServer(a.cfg.Metrics, metrics.GetRegistry())
}

// Close releases the database and log file
func (a *app) Close() {
	if a.db != nil {
		_ = database.Close(a.db)
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
