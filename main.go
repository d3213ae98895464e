package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/labvotodev-ia/labvoto-back/api"
	"github.com/labvotodev-ia/labvoto-back/auth"
	"github.com/labvotodev-ia/labvoto-back/config"
	"github.com/labvotodev-ia/labvoto-back/users"
	"github.com/labvotodev-ia/labvoto-back/warehouse"
	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"
)

func main() {
	logLevel := slog.LevelDebug
	if os.Getenv("PRODUCTION") == "true" {
		logLevel = slog.LevelInfo
	}
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: logLevel})
	slog.SetDefault(slog.New(logHandler))

	conf, err := config.ReadFromEnv()
	if err != nil {
		log.ErrorCause(err, "failed to read config from env")
		os.Exit(1)
	}

	ctx := context.Background()

	log.Info("Connecting to Postgres...")
	userStore, err := users.NewStore(ctx, conf.Postgres)
	if err != nil {
		log.ErrorCause(err, "failed to initialize user store")
		os.Exit(1)
	}
	defer userStore.Close()

	if err := userStore.EnsureSchema(ctx); err != nil {
		log.ErrorCause(err, "failed to ensure database schema")
		os.Exit(1)
	}
	if err := userStore.Seed(ctx, conf.Seed); err != nil {
		log.ErrorCause(err, "failed to seed bootstrap user")
		os.Exit(1)
	}

	log.Info("Connecting to ClickHouse...")
	reportWarehouse, err := warehouse.New(ctx, conf.ClickHouse)
	if err != nil {
		log.ErrorCause(err, "failed to initialize warehouse")
		os.Exit(1)
	}

	tokens := auth.NewTokenIssuer(conf.Auth)
	labVotoAPI := api.NewLabVotoAPI(
		userStore, reportWarehouse, tokens, http.NewServeMux(), conf.API,
	)

	log.Infof("Listening on port %s...", conf.API.Port)
	if err := labVotoAPI.ListenAndServe(); err != nil {
		log.ErrorCause(err, "server stopped")
		os.Exit(1)
	}
}
