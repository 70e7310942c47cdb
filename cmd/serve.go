package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pders01/prlink/internal/config"
	"github.com/pders01/prlink/internal/logger"
	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/scheme"
	"github.com/pders01/prlink/internal/server"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveAddr    string
	serveNoInfer bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pull request form in the browser",
	Long: `Start a local web server with the pull request URL form.

The form is pre-filled from the current git repository. The color scheme
follows the stored preference and the browser's prefers-color-scheme,
and changes made by other prlink processes are picked up live.

Examples:
  prlink serve
  prlink serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoInfer, "no-infer", false, "Do not pre-fill fields from the git repository")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, store, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	amb, err := ambient()
	if err != nil {
		return err
	}

	markers := scheme.NewMarkers()
	resolver := scheme.NewResolver(store.Get(ctx), amb.PrefersDark(), markers, func(s models.Scheme) {
		logger.Info(ctx, "Color scheme changed", slog.String("scheme", string(s)))
	})

	defaults, err := prefilledForm(serveNoInfer)
	if err != nil {
		return err
	}

	viper.OnConfigChange(configChangeHandler(ctx, resolver))
	if viper.ConfigFileUsed() != "" {
		viper.WatchConfig()
	}

	addr := serveAddr
	if addr == "" {
		addr = config.GetServerAddr()
	}

	printerFor(cmd, resolver.Scheme()).Info(fmt.Sprintf("Serving on http://%s (Ctrl+C to stop)", addr))

	var wg conc.WaitGroup
	wg.Go(func() {
		err := store.Watch(ctx, resolver.SetPreference)
		if err != nil {
			logger.Error(ctx, "Preference watch stopped", err)
		}
	})

	srv := server.New(store, resolver, markers, defaults)
	runErr := srv.Run(ctx, addr)

	stop()
	wg.Wait()

	if runErr != nil {
		return fmt.Errorf("server failed: %w", runErr)
	}
	return nil
}

// configChangeHandler applies an explicit dark or light ambient override
// from the reloaded config. Under auto the browser owns the ambient signal
// (PUT /api/ambient), so the last value it pushed is kept.
func configChangeHandler(ctx context.Context, resolver *scheme.Resolver) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		logger.Info(ctx, "Config changed", slog.String("path", e.Name))

		override, err := scheme.ParseAmbient(config.GetAmbient(), nil)
		if err != nil {
			logger.Warn(ctx, "Ignoring invalid ambient setting", slog.String("error", err.Error()))
			return
		}
		if override == nil {
			return
		}
		resolver.SetAmbient(override.PrefersDark())
	}
}
