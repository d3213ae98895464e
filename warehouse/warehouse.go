// Package warehouse builds the parameterized analytical report queries and
// normalizes their results. Caller-supplied values are never written into
// query text: they always travel as named parameter bindings, while table
// identifiers come from config and are validated before use.
package warehouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/labvotodev-ia/labvoto-back/config"
	"hermannm.dev/wrap"
)

// Executor is the part of the ClickHouse connection the reports use. Report
// tests substitute a fake that captures query text and bindings.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Select(ctx context.Context, dest any, query string, args ...any) error
	Ping(ctx context.Context) error
}

// Sources identifies where the reports read from. The candidate database
// holds the project-scoped tables (candidate search, party seat analysis);
// the electoral database is the public dataset behind the vote-share and
// campaign-finance reports.
type Sources struct {
	CandidateDatabase string
	ElectoralDatabase string
	Tables            Tables
}

type Tables struct {
	Candidatos           string
	Resultados           string
	ResultadosMunicipais string
	Municipios           string
	VotacaoDetalhe       string
	Despesas             string
	Receitas             string
}

func DefaultTables() Tables {
	return Tables{
		Candidatos:           "candidatos",
		Resultados:           "resultados",
		ResultadosMunicipais: "resultados_municipais",
		Municipios:           "municipios",
		VotacaoDetalhe:       "votacao_detalhe",
		Despesas:             "despesas",
		Receitas:             "receitas",
	}
}

type Warehouse struct {
	exec    Executor
	sources Sources
}

func New(ctx context.Context, config config.ClickHouse) (Warehouse, error) {
	// Options docs: https://clickhouse.com/docs/en/integrations/go#connection-settings
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.Address},
		Auth: clickhouse.Auth{
			Username: config.Username,
			Password: config.Password,
		},
		Debug: config.Debug,
		Debugf: func(format string, v ...any) {
			fmt.Printf(format+"\n", v...)
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return Warehouse{}, wrap.Error(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		return Warehouse{}, wrap.Error(err, "failed to ping ClickHouse connection")
	}

	sources := Sources{
		CandidateDatabase: config.CandidateDatabase,
		ElectoralDatabase: config.ElectoralDatabase,
		Tables:            DefaultTables(),
	}

	return NewWithExecutor(conn, sources), nil
}

func NewWithExecutor(exec Executor, sources Sources) Warehouse {
	return Warehouse{exec: exec, sources: sources}
}

func (warehouse Warehouse) Ping(ctx context.Context) error {
	return warehouse.exec.Ping(ctx)
}
