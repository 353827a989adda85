package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/config"
	"github.com/Temutjin2k/fair-fares/internal/adapter/gateway"
	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/session"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "fairfares",
	Short:             "Look up commute fares to BSU and keep a history of what you paid",
	Long:              `fairfares prices routes from the district fare guide, saves the fares you pick and shows your history and weekly average. Log in once; the session is kept between runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	envFile    string
)

// env is built once per invocation by setup.
var env *clientEnv

type clientEnv struct {
	cfg     *config.ClientConfig
	log     logger.Logger
	gateway *gateway.Client
	store   *session.Store
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the config yaml file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional .env file loaded before the config")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewClientConfig(configPath, envFile)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if !logger.ValidateLogLevel(level) {
		level = logger.LevelWarn
	}
	log := logger.New(cmd.ErrOrStderr(), "fairfares", level)

	path := cfg.Session.Path
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}

	gw := gateway.New(cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
	store := session.NewStore(session.NewFileStorage(path), gw, log)
	store.Restore(cmd.Context())

	env = &clientEnv{
		cfg:     cfg,
		log:     log,
		gateway: gw,
		store:   store,
	}
	return nil
}

// identity returns the logged in student or types.ErrNotAuthenticated.
func (e *clientEnv) identity() (*models.SessionIdentity, error) {
	who := e.store.Identity()
	if !who.Valid() {
		return nil, fmt.Errorf("%w: run `fairfares login` first", types.ErrNotAuthenticated)
	}
	return who, nil
}
