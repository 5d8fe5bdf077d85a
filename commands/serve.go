package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chatlens/internal/config"
	"github.com/penwyp/go-chatlens/internal/data/watcher"
	"github.com/penwyp/go-chatlens/internal/session"
	"github.com/penwyp/go-chatlens/internal/util"
	"github.com/penwyp/go-chatlens/internal/web"
)

const shutdownTimeout = 10 * time.Second

var (
	serveConfigPath string
	servePort       string
	serveWatchDir   string
	serveMaxUpload  int
)

var serveCmd = &cobra.Command{
	Use:   "serve [archive.zip]",
	Short: "Serve the browser dashboard",
	Long: `Starts the dashboard server. Upload an exported archive from the page
to replace the current session; the derived table lives in memory only.

Settings are read from ~/.go-chatlens/config.toml (or --config), then
from .env and the environment (PORT, ENV, CHATLENS_FOLDER,
CHATLENS_TIMEZONE, CHATLENS_MAX_UPLOAD_MB, CHATLENS_TOP_N), then from flags.

An optional archive argument is loaded before the server starts. With
--watch, zip files dropped into the folder replace the session as if uploaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "",
		"Config file path (default ~/.go-chatlens/config.toml)")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "",
		"Listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "",
		"Drop folder to watch for new zip archives")
	serveCmd.Flags().IntVar(&serveMaxUpload, "max-upload-mb", 0,
		"Upload size limit in MiB (overrides config)")
}

// serveConfig resolves the server settings, letting changed flags win.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("watch") {
		cfg.WatchDir = serveWatchDir
	}
	if flags.Changed("max-upload-mb") {
		cfg.MaxUploadMB = serveMaxUpload
	}
	if flags.Changed("folder") {
		cfg.Folder = folder
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	if err := setupLogging(logLevel(cfg.LogLevel), debug || cfg.IsDevelopment()); err != nil {
		return err
	}
	defer util.CloseLogger()
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	srv, err := web.NewServer(cfg, session.NewStore(), util.Logger())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 1 {
		path := expandPath(args[0])
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		if _, err := srv.Ingest(ctx, data, args[0], web.OriginUpload); err != nil {
			return err
		}
	}

	if cfg.WatchDir != "" {
		aw, err := watcher.NewArchiveWatcher(expandPath(cfg.WatchDir), watcher.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", cfg.WatchDir, err)
		}
		defer aw.Close()
		go srv.Watch(ctx, aw.Events())
		util.LogInfof("Watching %s for archives", aw.Dir())
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger := util.Logger()
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting dashboard server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard listening on http://localhost%s\n", cfg.Addr())

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	util.LogInfo("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	util.LogInfo("Server stopped")
	return nil
}
