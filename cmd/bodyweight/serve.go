package bodyweight

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/api"
	"github.com/prikhi/bodyweight-client/internal/app"
	"github.com/prikhi/bodyweight-client/internal/config"
)

var (
	serveAddr  string
	serveTrace bool
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bodyweight REST API on the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		return withDB(func(sqldb *sql.DB) error {
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			opts := []api.Option{
				api.WithLogger(logger),
				api.WithToken(cfg.Server.Token),
				api.WithNamespace(cfg.API.Namespace),
			}
			if serveTrace {
				exporter, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()))
				if err != nil {
					return fmt.Errorf("create trace exporter: %w", err)
				}
				tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
				defer func() { _ = tp.Shutdown(context.Background()) }()
				opts = append(opts, api.WithTracerProvider(tp))
			}
			srv := api.New(sqldb, opts...)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if serveWatch {
				w, err := watchConfig()
				if err != nil {
					return err
				}
				defer func() { _ = w.Close() }()
				go w.Run(ctx)
			}
			return srv.Run(ctx, addr)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.addr)")
	serveCmd.Flags().BoolVar(&serveTrace, "trace", false, "Write request spans to stderr")
	serveCmd.Flags().BoolVar(&serveWatch, "watch-config", true, "Apply log.level changes from the config file without a restart")
}

func watchConfig() (*config.Watcher, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = app.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return config.NewWatcher(path, logger, func(c *config.Config) {
		if verbose {
			return
		}
		if err := setLogLevel(c.Log.Level); err != nil {
			logger.Warn("ignore log level", zap.String("level", c.Log.Level), zap.Error(err))
			return
		}
		logger.Info("log level changed", zap.String("level", logLevel.String()))
	})
}
