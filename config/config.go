package config

import (
	"errors"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"
)

type Config struct {
	IsProduction bool `env:"PRODUCTION"`
	API          API
	Postgres     Postgres
	ClickHouse   ClickHouse
	Auth         Auth
	Seed         Seed
}

type API struct {
	Port string `env:"API_PORT"`
}

type Postgres struct {
	Address      string `env:"POSTGRES_ADDRESS"`
	DatabaseName string `env:"POSTGRES_DB_NAME"`
	Username     string `env:"POSTGRES_USERNAME"`
	Password     string `env:"POSTGRES_PASSWORD"`
}

// ClickHouse carries the warehouse connection, plus the two source databases
// the reports read from: the project-scoped candidate database (candidate
// search and party seat analysis), and the public electoral database (vote
// share, cost-per-vote and public-fund reports). The original data source
// kept these as two separately named datasets, so they stay independently
// configurable here.
type ClickHouse struct {
	Address           string `env:"CLICKHOUSE_ADDRESS"`
	Username          string `env:"CLICKHOUSE_USERNAME"`
	Password          string `env:"CLICKHOUSE_PASSWORD"`
	CandidateDatabase string `env:"CLICKHOUSE_DB_CANDIDATOS"`
	ElectoralDatabase string `env:"CLICKHOUSE_DB_ELEITORAL"`
	Debug             bool   `env:"CLICKHOUSE_DEBUG_ENABLED"`
}

type Auth struct {
	SecretKey            string `env:"AUTH_SECRET_KEY"`
	TokenLifetimeMinutes int    `env:"AUTH_TOKEN_LIFETIME_MINUTES" envDefault:"30"`
}

// Seed optionally bootstraps a first user on startup, for fresh databases.
// Both fields must be set for the seed to run.
type Seed struct {
	UserEmail    string `env:"SEED_USER_EMAIL"    envDefault:""`
	UserPassword string `env:"SEED_USER_PASSWORD" envDefault:""`
}

func ReadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config
	if err := env.ParseWithOptions(&config, parseOptions); err != nil {
		return Config{}, err
	}

	if config.Auth.TokenLifetimeMinutes <= 0 {
		return Config{}, errors.New("AUTH_TOKEN_LIFETIME_MINUTES must be positive")
	}

	return config, nil
}
