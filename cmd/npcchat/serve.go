package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loreforge/npcchat/chat"
	"github.com/loreforge/npcchat/config"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/model"
	anthropicmodel "github.com/loreforge/npcchat/model/anthropic"
	localmodel "github.com/loreforge/npcchat/model/local"
	openaimodel "github.com/loreforge/npcchat/model/openai"
	"github.com/loreforge/npcchat/orchestrator"
	"github.com/loreforge/npcchat/persona"
	"github.com/loreforge/npcchat/server"
	"github.com/loreforge/npcchat/session"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, false)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	models := map[persona.Provider]model.Model{
		persona.ProviderOpenAI: openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.Providers.OpenAI.APIKey
		}),
		persona.ProviderAnthropic: anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.Providers.Anthropic.APIKey
		}),
		persona.ProviderLocal: localmodel.NewModel(func(o *localmodel.Options) {
			if cfg.Providers.Local.Endpoint != "" {
				o.Endpoint = cfg.Providers.Local.Endpoint
			}
		}),
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Models = models
		o.Timeout = cfg.Providers.Timeout.Std()
		o.Logger = logger
	})

	var store core.SessionStore
	if cfg.VaultEnabled() {
		client, err := vaultClient(cfg)
		if err != nil {
			return err
		}
		vaultStore := session.NewVaultStore(client, func(o *session.VaultStoreOptions) {
			o.Logger = logger
		})
		store = vaultStore

		// Warm the vault eagerly so an unreachable cluster shows up in the
		// logs at startup instead of on the first turn.
		go func() {
			initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := vaultStore.Ping(initCtx); err != nil {
				logger.Error("vault service failed to initialize", "error", err.Error())
				return
			}
			logger.Info("vault service initialized")
		}()
	} else {
		logger.Info("vault service not configured; conversations will not be persisted")
	}

	coordinator := chat.NewCoordinator(catalog, orch, store, func(o *chat.Options) {
		o.Logger = logger
	})
	srv := server.New(coordinator, catalog, store, func(o *server.Options) {
		o.Logger = logger
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Server.Addr) }()
	logger.Info("server running", "addr", cfg.Server.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
