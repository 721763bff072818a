// Package cmd defines and implements the CLI commands for the pagetitle and
// sitemaptitles executables.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/app"
	"github.com/JakeFAU/sitemap-title-crawler/internal/config"
	"github.com/JakeFAU/sitemap-title-crawler/internal/crawl"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	PageRunner() crawl.PageRunner
	SitemapCrawler() *crawl.SitemapCrawler
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp = func(ctx context.Context, cfgPath string) (App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.NewApp(ctx, cfg)
}

// errReported marks failures already written to the command output.
var errReported = errors.New("failure reported")

// newBaseCmd wires the lifecycle shared by both executables: the App is built
// after argument validation and closed once run returns, whether or not it failed.
func newBaseCmd(use, short, long string, run func(cmd *cobra.Command, a App, arg string) error) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Arguments are valid by now; later errors are not usage errors.
			cmd.SilenceUsage = true

			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			// Close here rather than in PersistentPostRun, which cobra skips when RunE fails.
			defer appInstance.Close()

			err = run(cmd, appInstance, args[0])
			if errors.Is(err, errReported) {
				cmd.SilenceErrors = true
			}
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment variables use the SITEMAPTITLES_ prefix")
	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// execute runs cmd with a context cancelled on SIGINT/SIGTERM and exits
// non-zero on failure.
func execute(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
