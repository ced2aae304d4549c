package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/kotche/quicknotes/infrastructure/tracing"
	"github.com/kotche/quicknotes/internal/app/server"
	"github.com/kotche/quicknotes/internal/config"
	"github.com/kotche/quicknotes/internal/metrics"
	notes_repo "github.com/kotche/quicknotes/internal/repository/notes"
	users_repo "github.com/kotche/quicknotes/internal/repository/users"
	"github.com/kotche/quicknotes/internal/service/broker"
	"github.com/kotche/quicknotes/internal/service/directory"
	"github.com/kotche/quicknotes/internal/service/identity"
	notes_serv "github.com/kotche/quicknotes/internal/service/notes"
	"github.com/kotche/quicknotes/internal/service/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsConfig.Port)

	connStr := cfg.PostgresConfig.DSN()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalln(err)
	}

	if err = runMigrations(connStr); err != nil {
		log.Fatalln("migration error:", err)
	}

	_, cleanup, err := tracing.InitTracing(cfg.TracingConfig.Endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	events, err := newPublisher(cfg.KafkaConfig)
	if err != nil {
		log.Fatalf("failed to initialize kafka: %v", err)
	}
	defer events.Close()

	usersRepo := users_repo.NewDefaultRepository(db)
	notesRepo := notes_repo.NewDefaultRepository(db)

	clerkDirectory := directory.NewClerkClient(cfg.ClerkConfig.APIBaseURL, cfg.ClerkConfig.SecretKey)
	identityServ := identity.NewDefaultService(usersRepo, clerkDirectory, events)
	notesServ := notes_serv.NewDefaultService(notesRepo, events)

	verifier, err := webhook.NewVerifier(cfg.ClerkConfig.WebhookSecret)
	if err != nil {
		log.Fatalf("failed to initialize webhook verifier: %v", err)
	}
	processor := webhook.NewProcessor(usersRepo, events)

	srv := server.New(cfg.ServerConfig, server.Deps{
		Identity:  identityServ,
		Notes:     notesServ,
		Verifier:  verifier,
		Processor: processor,
		Tokens:    server.NewJWTVerifier(cfg.AuthConfig.TokenSecret),
	})

	slog.Info("server starting", "port", cfg.ServerConfig.Port)
	if err = srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newPublisher(cfg config.KafkaConfig) (broker.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		slog.Info("no kafka brokers configured, lifecycle events disabled")
		return broker.NewNopPublisher(), nil
	}
	return broker.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

func runMigrations(dbURL string) error {
	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err = m.Up(); !errors.Is(err, migrate.ErrNoChange) && err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
