// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/config"
	"github.com/JakeFAU/sitemap-title-crawler/internal/crawl"
	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	collyfetcher "github.com/JakeFAU/sitemap-title-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/sitemap-title-crawler/internal/fetcher/headless"
	"github.com/JakeFAU/sitemap-title-crawler/internal/fetcher/static"
	"github.com/JakeFAU/sitemap-title-crawler/internal/id/uuid"
	"github.com/JakeFAU/sitemap-title-crawler/internal/logging"
	"github.com/JakeFAU/sitemap-title-crawler/internal/metrics"
	"github.com/JakeFAU/sitemap-title-crawler/internal/sitemap"
	"github.com/JakeFAU/sitemap-title-crawler/internal/telemetry"
)

// Shutdowner is implemented by the tracer provider.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// App holds the shared services for one CLI invocation: the logger, the page
// title fetcher selected by configuration and the sitemap loader. It is built
// once at startup and closed by a cobra hook when the command finishes.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	RunID     string
	Documents crawler.DocumentFetcher
	Titles    crawler.TitleFetcher
	Loader    *sitemap.Loader
	Tracer    Shutdowner
}

// GetLogger returns the shared zap logger.
func (a *App) GetLogger() *zap.Logger {
	return a.Logger
}

// PageRunner returns a runner for the single page flow.
func (a *App) PageRunner() crawl.PageRunner {
	return crawl.PageRunner{
		Fetcher: a.Titles,
		Driver:  a.Config.Headless.Driver,
		Logger:  a.Logger.Named("page"),
	}
}

// SitemapCrawler returns a crawler wired to the configured pool size and sample bound.
func (a *App) SitemapCrawler() *crawl.SitemapCrawler {
	return &crawl.SitemapCrawler{
		Loader:     a.Loader,
		Fetcher:    a.Titles,
		Workers:    a.Config.Crawler.Workers,
		MaxPages:   a.Config.Crawler.MaxPages,
		QueueDepth: a.Config.Crawler.QueueDepth,
		Driver:     a.Config.Headless.Driver,
		Logger:     a.Logger.Named("crawl"),
	}
}

// NewApp creates and initializes a new App from cfg. It fails fast if any
// service cannot be initialized.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := logging.New(logging.Config{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.New().MustNewID()
	l := base.With(zap.String("run_id", runID))
	l.Debug("initializing application services", zap.String("driver", cfg.Headless.Driver))

	var tracer Shutdowner
	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracerProvider(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		tracer = tp
	}
	metrics.Init()

	documents := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})
	titles, err := NewTitleFetcher(cfg, documents, l)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		RunID:     runID,
		Documents: documents,
		Titles:    titles,
		Loader:    sitemap.NewLoader(documents, l),
		Tracer:    tracer,
	}, nil
}

// NewTitleFetcher selects the page title driver named by cfg.Headless.Driver.
func NewTitleFetcher(cfg config.Config, documents crawler.DocumentFetcher, logger *zap.Logger) (crawler.TitleFetcher, error) {
	hcfg := headless.Config{
		UserAgent:         cfg.Crawler.UserAgent,
		BrowserPath:       cfg.Headless.BrowserPath,
		NavigationTimeout: cfg.NavigationTimeout(),
		Logger:            logger,
	}
	switch cfg.Headless.Driver {
	case config.DriverChromedp:
		f, err := headless.NewChromedp(hcfg)
		if err != nil {
			return nil, fmt.Errorf("init chromedp fetcher: %w", err)
		}
		return f, nil
	case config.DriverRod:
		f, err := headless.NewRod(hcfg)
		if err != nil {
			return nil, fmt.Errorf("init rod fetcher: %w", err)
		}
		return f, nil
	case config.DriverStatic:
		return static.New(documents), nil
	case config.DriverNone:
		logger.Warn("page fetch driver disabled; every title fetch will fail")
		return headless.NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown page fetch driver: %s", cfg.Headless.Driver)
	}
}

// Close flushes telemetry and the logger. It is called by a cobra hook after
// the command finishes.
func (a *App) Close() {
	l := a.GetLogger()
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(context.Background()); err != nil {
			l.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}
	if err := metrics.Push(a.Config.Metrics.PushgatewayURL, a.Config.Metrics.Job); err != nil {
		l.Warn("error pushing metrics", zap.Error(err))
	}
	// Sync on stderr returns EINVAL/ENOTTY on some platforms; nothing useful can be done about it.
	_ = l.Sync()
}
