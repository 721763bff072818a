package headless

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

// Rod implements crawler.TitleFetcher on go-rod. Like Chromedp, it launches a
// dedicated browser per call.
type Rod struct {
	cfg    Config
	logger *zap.Logger
}

// NewRod creates a headless title fetcher backed by go-rod.
func NewRod(cfg Config) (*Rod, error) {
	if cfg.NavigationTimeout < 0 {
		return nil, fmt.Errorf("navigation timeout must be >= 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rod{cfg: cfg, logger: logger.Named("rod")}, nil
}

func (f *Rod) newLauncher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if f.cfg.BrowserPath != "" {
		l = l.Bin(f.cfg.BrowserPath)
	}
	return l
}

// FetchTitle launches a browser, navigates to url and returns the page title.
func (f *Rod) FetchTitle(ctx context.Context, url string) (string, error) {
	l := f.newLauncher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		return "", crawler.NewFetchError(crawler.KindDriverCrash, url, fmt.Errorf("launch browser: %w", err))
	}
	// Kill and Cleanup are only safe once a process exists.
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", crawler.NewFetchError(crawler.KindDriverCrash, url, fmt.Errorf("connect browser: %w", err))
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			f.logger.Debug("browser close failed", zap.String("url", url), zap.Error(cerr))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", crawler.NewFetchError(crawler.KindDriverCrash, url, fmt.Errorf("open page: %w", err))
	}
	if f.cfg.NavigationTimeout > 0 {
		page = page.Timeout(f.cfg.NavigationTimeout)
	}
	if f.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.cfg.UserAgent}); err != nil {
			return "", crawler.NewFetchError(crawler.KindDriverCrash, url, fmt.Errorf("set user-agent: %w", err))
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", crawler.NewFetchError(classifyRod(err), url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", crawler.NewFetchError(classifyRod(err), url, err)
	}
	info, err := page.Info()
	if err != nil {
		return "", crawler.NewFetchError(crawler.KindUnexpectedPageState, url, err)
	}
	return info.Title, nil
}

func classifyRod(err error) crawler.FetchErrorKind {
	var navErr *rod.NavigationError
	if errors.As(err, &navErr) {
		if kind := crawler.ClassifyFetchError(err); kind == crawler.KindNavigationTimeout {
			return kind
		}
		return crawler.KindConnectionFailure
	}
	return crawler.ClassifyFetchError(err)
}
