// Package headless contains title fetchers that drive a real browser.
package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

// Config controls the behavior of the headless fetchers. The browser always
// runs headless, without the sandbox and without /dev/shm; those flags are not
// configurable.
type Config struct {
	UserAgent string
	// BrowserPath overrides browser discovery.
	BrowserPath string
	// NavigationTimeout bounds one page load. Zero waits indefinitely.
	NavigationTimeout time.Duration
	Logger            *zap.Logger
}

// Chromedp implements crawler.TitleFetcher using chromedp. Every call launches
// its own browser process and tears it down before returning.
type Chromedp struct {
	cfg    Config
	logger *zap.Logger
}

// NewChromedp creates a headless title fetcher backed by chromedp.
func NewChromedp(cfg Config) (*Chromedp, error) {
	if cfg.NavigationTimeout < 0 {
		return nil, fmt.Errorf("navigation timeout must be >= 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chromedp{cfg: cfg, logger: logger.Named("chromedp")}, nil
}

func (f *Chromedp) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if f.cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.BrowserPath))
	}
	return opts
}

// FetchTitle launches a browser, navigates to url and returns document.title.
func (f *Chromedp) FetchTitle(ctx context.Context, url string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	if timeout := f.cfg.NavigationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, timeout)
		defer cancel()
	}

	meta := newDocumentMeta()
	chromedp.ListenTarget(taskCtx, meta.captureEvent)

	var title string
	actions := []chromedp.Action{
		f.networkSetupAction(),
		chromedp.Navigate(url),
		chromedp.Title(&title),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", f.fetchError(url, err)
	}

	status, finalURL := meta.snapshot()
	f.logger.Debug("page loaded",
		zap.String("url", url),
		zap.String("final_url", finalURL),
		zap.Int("status", status),
	)
	return title, nil
}

func (f *Chromedp) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if f.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(f.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

func (f *Chromedp) fetchError(url string, err error) *crawler.FetchError {
	return crawler.NewFetchError(classifyChromedp(err), url, err)
}

func classifyChromedp(err error) crawler.FetchErrorKind {
	switch {
	case errors.Is(err, chromedp.ErrInvalidContext), errors.Is(err, chromedp.ErrChannelClosed):
		return crawler.KindDriverCrash
	default:
		return crawler.ClassifyFetchError(err)
	}
}

// documentMeta records the main document response seen during navigation.
type documentMeta struct {
	mu     sync.RWMutex
	status int
	url    string
}

func newDocumentMeta() *documentMeta {
	return &documentMeta{}
}

func (m *documentMeta) capture(event *network.EventResponseReceived) {
	if event.Type != network.ResourceTypeDocument || event.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(event.Response.Status)
	m.url = event.Response.URL
	m.mu.Unlock()
}

func (m *documentMeta) captureEvent(ev any) {
	if resp, ok := ev.(*network.EventResponseReceived); ok {
		m.capture(resp)
	}
}

func (m *documentMeta) snapshot() (int, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.url
}
