package bodyweight

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prikhi/bodyweight-client/internal/app"
	"github.com/prikhi/bodyweight-client/internal/config"
)

var (
	configPath string
	apiURL     string
	dbPath     string
	verbose    bool

	cfg      *config.Config
	logger   = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

var rootCmd = &cobra.Command{
	Use:           "bodyweight",
	Short:         "bodyweight manages exercises and workout routines",
	Long:          "bodyweight builds exercises, sections and routines and keeps them on a bodyweight API server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL of the bodyweight API")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = app.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if dbPath != "" {
		c.DB.Path = dbPath
	}
	if verbose {
		c.Log.Level = "debug"
	}
	return c, nil
}

func buildLogger(level string) (*zap.Logger, error) {
	if err := setLogLevel(level); err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = logLevel
	return zc.Build()
}

func setLogLevel(level string) error {
	if level == "" {
		logLevel.SetLevel(zapcore.WarnLevel)
		return nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	logLevel.SetLevel(lvl)
	return nil
}
