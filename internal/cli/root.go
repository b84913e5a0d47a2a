// Package cli implements the supportbot CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaenox/support-bot/internal/faq"
	"github.com/xaenox/support-bot/internal/gateway"
	"github.com/xaenox/support-bot/internal/resolver"
	"github.com/xaenox/support-bot/internal/ticket"
	"github.com/xaenox/support-bot/pkg/config"
	"go.uber.org/zap"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "Customer-support chatbot",
	Long: "A customer-support chatbot that answers from a FAQ set, falls back to an " +
		"LLM, and offers to open a support ticket when no confident answer exists.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// app bundles the wired components shared by the serving commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *faq.Store
	recorder ticket.Recorder
	resolver *resolver.Resolver
}

func newApp() (*app, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store := faq.NewStore(cfg.FAQ.UseIndex, logger)
	switch len(cfg.FAQ.Sources) {
	case 0:
		err = store.LoadDefaults()
	case 1:
		// a single explicit source must exist
		err = store.Load(cfg.FAQ.Sources[0])
	default:
		err = store.LoadAll(cfg.FAQ.Sources)
	}
	if err != nil {
		return nil, err
	}

	var recorder ticket.Recorder
	if cfg.Database.UsePostgres {
		logger.Info("using PostgreSQL ticket storage")
		recorder, err = ticket.NewPostgresRecorder(ticket.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing ticket storage: %w", err)
		}
	} else {
		logger.Info("using CSV ticket storage", zap.String("path", cfg.Tickets.CSVPath))
		recorder = ticket.NewCSVRecorder(cfg.Tickets.CSVPath, logger)
	}

	var gw gateway.Gateway
	if cfg.OpenAI.APIKey != "" {
		gw = gateway.NewOpenAIGateway(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	} else {
		logger.Info("no OpenAI credential configured, running in FAQ/fallback mode")
	}

	res := resolver.New(store, recorder, gw, cfg.Chat.Greetings, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		recorder: recorder,
		resolver: res,
	}, nil
}

// watchFAQ starts the hot-reload watcher when enabled by config.
func (a *app) watchFAQ(ctx context.Context) error {
	if !a.cfg.FAQ.Watch {
		return nil
	}
	w, err := faq.NewWatcher(a.store, a.logger)
	if err != nil {
		return fmt.Errorf("creating faq watcher: %w", err)
	}
	return w.Start(ctx)
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Error("closing ticket recorder", zap.Error(err))
	}
	a.logger.Sync()
}
