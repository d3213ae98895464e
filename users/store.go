package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/auth"
	"github.com/labvotodev-ia/labvoto-back/config"
	"hermannm.dev/wrap"
)

// Store owns the usuarios table in Postgres. Connections are checked out
// from the pool per call and released when the call returns.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, config config.Postgres) (Store, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s/%s",
		config.Username,
		url.QueryEscape(config.Password),
		config.Address,
		config.DatabaseName,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return Store{}, wrap.Error(err, "failed to create Postgres connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return Store{}, wrap.Error(err, "failed to ping Postgres")
	}

	return Store{pool: pool}, nil
}

func (store Store) Close() {
	store.pool.Close()
}

// Ping verifies that the relational store is reachable (used by /health).
func (store Store) Ping(ctx context.Context) error {
	return store.pool.Ping(ctx)
}

func (store Store) EnsureSchema(ctx context.Context) error {
	_, err := store.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS usuarios (
			id            BIGSERIAL PRIMARY KEY,
			nome_completo TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			senha_hash    TEXT NOT NULL,
			cargo         TEXT,
			municipio     TEXT,
			uf            VARCHAR(2),
			ativo         BOOLEAN NOT NULL DEFAULT TRUE,
			criado_em     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			atualizado_em TIMESTAMPTZ
		)`,
	)
	if err != nil {
		return wrap.Error(err, "failed to create usuarios table")
	}

	return nil
}

const userColumns = `id, nome_completo, email, senha_hash, cargo, municipio, uf, ativo,
	criado_em, atualizado_em`

func (store Store) Create(ctx context.Context, newUser NewUser) (User, error) {
	if err := newUser.Validate(); err != nil {
		return User{}, err
	}

	senhaHash, err := auth.HashPassword(newUser.Senha)
	if err != nil {
		return User{}, err
	}

	row := store.pool.QueryRow(
		ctx,
		`INSERT INTO usuarios (nome_completo, email, senha_hash, cargo, municipio, uf)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
		newUser.NomeCompleto,
		newUser.Email,
		senhaHash,
		newUser.Cargo,
		newUser.Municipio,
		newUser.UF,
	)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, apperrors.Conflict("email já cadastrado")
		}
		return User{}, apperrors.Execution(err, "failed to create user")
	}

	return user, nil
}

func (store Store) GetByID(ctx context.Context, id int64) (User, error) {
	row := store.pool.QueryRow(
		ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperrors.NotFound("usuário não encontrado")
		}
		return User{}, apperrors.Execution(err, "failed to get user")
	}

	return user, nil
}

func (store Store) GetByEmail(ctx context.Context, email string) (User, error) {
	row := store.pool.QueryRow(
		ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = $1`, email,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperrors.NotFound("usuário não encontrado")
		}
		return User{}, apperrors.Execution(err, "failed to get user by email")
	}

	return user, nil
}

func (store Store) List(ctx context.Context, offset int, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := store.pool.Query(
		ctx,
		`SELECT `+userColumns+` FROM usuarios ORDER BY id OFFSET $1 LIMIT $2`,
		offset,
		limit,
	)
	if err != nil {
		return nil, apperrors.Execution(err, "failed to list users")
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Execution(err, "failed to scan user row")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Execution(err, "failed to list users")
	}

	return users, nil
}

func (store Store) Update(ctx context.Context, id int64, update UserUpdate) (User, error) {
	if err := update.Validate(); err != nil {
		return User{}, err
	}

	assignments := []string{"atualizado_em = NOW()"}
	args := []any{id}

	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.NomeCompleto != nil {
		addAssignment("nome_completo", *update.NomeCompleto)
	}
	if update.Email != nil {
		addAssignment("email", *update.Email)
	}
	if update.Senha != nil {
		senhaHash, err := auth.HashPassword(*update.Senha)
		if err != nil {
			return User{}, err
		}
		addAssignment("senha_hash", senhaHash)
	}
	if update.Cargo != nil {
		addAssignment("cargo", *update.Cargo)
	}
	if update.Municipio != nil {
		addAssignment("municipio", *update.Municipio)
	}
	if update.UF != nil {
		addAssignment("uf", *update.UF)
	}
	if update.Ativo != nil {
		addAssignment("ativo", *update.Ativo)
	}

	row := store.pool.QueryRow(
		ctx,
		`UPDATE usuarios SET `+strings.Join(assignments, ", ")+
			` WHERE id = $1 RETURNING `+userColumns,
		args...,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperrors.NotFound("usuário não encontrado")
		}
		if isUniqueViolation(err) {
			return User{}, apperrors.Conflict("email já está em uso por outro usuário")
		}
		return User{}, apperrors.Execution(err, "failed to update user")
	}

	return user, nil
}

func (store Store) Delete(ctx context.Context, id int64) error {
	commandTag, err := store.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return apperrors.Execution(err, "failed to delete user")
	}

	if commandTag.RowsAffected() == 0 {
		return apperrors.NotFound("usuário não encontrado")
	}

	return nil
}

// Authenticate checks the given credentials against the stored hash. A
// missing account and a wrong password produce the same error, so the
// response does not reveal which emails are registered.
func (store Store) Authenticate(ctx context.Context, email string, password string) (User, error) {
	user, err := store.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return User{}, apperrors.Auth("email ou senha incorretos")
		}
		return User{}, err
	}

	if !auth.CheckPassword(password, user.SenhaHash) {
		return User{}, apperrors.Auth("email ou senha incorretos")
	}

	if !user.Ativo {
		return User{}, ErrUsuarioInativo
	}

	return user, nil
}

// Seed creates the configured bootstrap user if it does not exist yet.
func (store Store) Seed(ctx context.Context, seed config.Seed) error {
	if seed.UserEmail == "" || seed.UserPassword == "" {
		return nil
	}

	_, err := store.GetByEmail(ctx, seed.UserEmail)
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return err
	}

	_, err = store.Create(ctx, NewUser{
		NomeCompleto: "Usuário Inicial",
		Email:        seed.UserEmail,
		Senha:        seed.UserPassword,
	})
	return err
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.NomeCompleto,
		&user.Email,
		&user.SenhaHash,
		&user.Cargo,
		&user.Municipio,
		&user.UF,
		&user.Ativo,
		&user.CriadoEm,
		&user.AtualizadoEm,
	)
	return user, err
}

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == uniqueViolationCode
}
