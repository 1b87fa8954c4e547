package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/config"
	"github.com/akave-ai/confprompt/internal/database"
	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/logger"
	"github.com/akave-ai/confprompt/internal/prompt"
	"github.com/akave-ai/confprompt/internal/repository"
	"github.com/akave-ai/confprompt/internal/server"
	"github.com/akave-ai/confprompt/internal/storage"

	_ "github.com/akave-ai/confprompt/internal/infrastructure/sources/jsonsource"
	_ "github.com/akave-ai/confprompt/internal/infrastructure/sources/yamlsource"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Observability)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var nrApp *newrelic.Application
	if cfg.Observability.NewRelicEnabled() {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.Observability.ServiceName),
			newrelic.ConfigLicense(cfg.Observability.NewRelic.LicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(cfg.Observability.NewRelic.AppLogForwardingEnabled),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("new relic")
		}
	}

	deps := server.Deps{
		Logger:   log,
		Sources:  sources.GlobalRegistry,
		NewRelic: nrApp,
	}

	if cfg.Prompt.MessageTemplate != "" {
		f, err := prompt.NewTemplateFormatter(cfg.Prompt.MessageTemplate)
		if err != nil {
			log.Fatal().Err(err).Msg("message template")
		}
		deps.Formatter = f
	}

	if cfg.Database != nil {
		if err := database.RunMigrations(ctx, cfg.Database.DSN(), log); err != nil {
			log.Fatal().Err(err).Msg("migrations")
		}
		pool, err := database.NewPool(ctx, cfg.Database, log, nrApp != nil)
		if err != nil {
			log.Fatal().Err(err).Msg("database pool")
		}
		defer pool.Close()
		deps.Templates = repository.NewTemplateRepository(pool)
	}

	if cfg.Storage != nil && cfg.Storage.O3 != nil {
		o3, err := storage.NewO3Client(cfg.Storage.O3)
		if err != nil {
			log.Fatal().Err(err).Msg("o3 client")
		}
		if err := o3.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.O3.Bucket).Msg("o3 bucket")
		}
		deps.Objects = o3
	}

	srv := server.New(cfg, deps)
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
