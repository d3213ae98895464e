package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/auth"
	"github.com/labvotodev-ia/labvoto-back/config"
	"github.com/labvotodev-ia/labvoto-back/users"
	"github.com/labvotodev-ia/labvoto-back/warehouse"
)

// memoryStore implements UserStore in memory, with the same validation and
// error semantics as the Postgres-backed store.
type memoryStore struct {
	users  map[int64]users.User
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[int64]users.User{}, nextID: 1}
}

func (store *memoryStore) Ping(ctx context.Context) error { return nil }

func (store *memoryStore) Create(
	ctx context.Context, newUser users.NewUser,
) (users.User, error) {
	if err := newUser.Validate(); err != nil {
		return users.User{}, err
	}
	for _, existing := range store.users {
		if existing.Email == newUser.Email {
			return users.User{}, apperrors.Conflict("email já cadastrado")
		}
	}

	senhaHash, err := auth.HashPassword(newUser.Senha)
	if err != nil {
		return users.User{}, err
	}

	user := users.User{
		ID:           store.nextID,
		NomeCompleto: newUser.NomeCompleto,
		Email:        newUser.Email,
		SenhaHash:    senhaHash,
		Cargo:        newUser.Cargo,
		Municipio:    newUser.Municipio,
		UF:           newUser.UF,
		Ativo:        true,
		CriadoEm:     time.Now(),
	}
	store.users[user.ID] = user
	store.nextID++
	return user, nil
}

func (store *memoryStore) GetByID(ctx context.Context, id int64) (users.User, error) {
	user, ok := store.users[id]
	if !ok {
		return users.User{}, apperrors.NotFound("usuário não encontrado")
	}
	return user, nil
}

func (store *memoryStore) GetByEmail(ctx context.Context, email string) (users.User, error) {
	for _, user := range store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return users.User{}, apperrors.NotFound("usuário não encontrado")
}

func (store *memoryStore) List(
	ctx context.Context, offset int, limit int,
) ([]users.User, error) {
	list := []users.User{}
	for id := int64(1); id < store.nextID; id++ {
		if user, ok := store.users[id]; ok {
			list = append(list, user)
		}
	}
	if offset > len(list) {
		offset = len(list)
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (store *memoryStore) Update(
	ctx context.Context, id int64, update users.UserUpdate,
) (users.User, error) {
	if err := update.Validate(); err != nil {
		return users.User{}, err
	}
	user, ok := store.users[id]
	if !ok {
		return users.User{}, apperrors.NotFound("usuário não encontrado")
	}

	if update.Email != nil && *update.Email != user.Email {
		for _, existing := range store.users {
			if existing.Email == *update.Email {
				return users.User{}, apperrors.Conflict("email já está em uso por outro usuário")
			}
		}
		user.Email = *update.Email
	}
	if update.NomeCompleto != nil {
		user.NomeCompleto = *update.NomeCompleto
	}
	if update.Senha != nil {
		senhaHash, err := auth.HashPassword(*update.Senha)
		if err != nil {
			return users.User{}, err
		}
		user.SenhaHash = senhaHash
	}
	if update.Cargo != nil {
		user.Cargo = update.Cargo
	}
	if update.Municipio != nil {
		user.Municipio = update.Municipio
	}
	if update.UF != nil {
		user.UF = update.UF
	}
	if update.Ativo != nil {
		user.Ativo = *update.Ativo
	}
	now := time.Now()
	user.AtualizadoEm = &now

	store.users[id] = user
	return user, nil
}

func (store *memoryStore) Delete(ctx context.Context, id int64) error {
	if _, ok := store.users[id]; !ok {
		return apperrors.NotFound("usuário não encontrado")
	}
	delete(store.users, id)
	return nil
}

func (store *memoryStore) Authenticate(
	ctx context.Context, email string, password string,
) (users.User, error) {
	user, err := store.GetByEmail(ctx, email)
	if err != nil {
		return users.User{}, apperrors.Auth("email ou senha incorretos")
	}
	if !auth.CheckPassword(password, user.SenhaHash) {
		return users.User{}, apperrors.Auth("email ou senha incorretos")
	}
	if !user.Ativo {
		return users.User{}, users.ErrUsuarioInativo
	}
	return user, nil
}

// fakeExecutor counts warehouse round trips; report queries succeed with
// empty results.
type fakeExecutor struct {
	calls int
}

func (exec *fakeExecutor) Query(
	ctx context.Context, query string, args ...any,
) (driver.Rows, error) {
	exec.calls++
	return nil, errors.New("query rows not supported in API tests")
}

func (exec *fakeExecutor) Select(
	ctx context.Context, dest any, query string, args ...any,
) error {
	exec.calls++
	return nil
}

func (exec *fakeExecutor) Ping(ctx context.Context) error { return nil }

func newTestAPI(t *testing.T) (LabVotoAPI, *memoryStore, *fakeExecutor) {
	t.Helper()

	store := newMemoryStore()
	exec := &fakeExecutor{}
	sources := warehouse.Sources{
		CandidateDatabase: "labvoto",
		ElectoralDatabase: "eleicoes_publicas",
		Tables:            warehouse.DefaultTables(),
	}
	tokens := auth.NewTokenIssuer(config.Auth{
		SecretKey:            "test-secret-key",
		TokenLifetimeMinutes: 30,
	})

	api := NewLabVotoAPI(
		store,
		warehouse.NewWithExecutor(exec, sources),
		tokens,
		http.NewServeMux(),
		config.API{Port: "0"},
	)
	return api, store, exec
}

func (api LabVotoAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, req)
	return recorder
}

func createTestUser(t *testing.T, api LabVotoAPI, email string, senha string) users.PublicUser {
	t.Helper()

	body := fmt.Sprintf(
		`{"nome_completo": "Usuário de Teste", "email": "%s", "senha": "%s"}`, email, senha,
	)
	res := api.serve(httptest.NewRequest(
		http.MethodPost, "/usuarios", strings.NewReader(body),
	))
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d: %s", res.Code, res.Body.String())
	}

	var created users.PublicUser
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	return created
}

func loginTestUser(t *testing.T, api LabVotoAPI, email string, senha string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email": "%s", "senha": "%s"}`, email, senha)
	res := api.serve(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 logging in, got %d: %s", res.Code, res.Body.String())
	}

	var tokenResponse TokenResponse
	if err := json.Unmarshal(res.Body.Bytes(), &tokenResponse); err != nil {
		t.Fatal(err)
	}
	if tokenResponse.TokenType != "bearer" {
		t.Fatalf("expected bearer token type, got '%s'", tokenResponse.TokenType)
	}
	return tokenResponse.AccessToken
}

func TestUserRoundTrip(t *testing.T) {
	api, _, _ := newTestAPI(t)

	created := createTestUser(t, api, "a@b.com", "senha123")
	if !created.Ativo {
		t.Fatal("expected new user to be active")
	}

	token := loginTestUser(t, api, "a@b.com", "senha123")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/usuarios/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := api.serve(req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	body := res.Body.String()
	if strings.Contains(body, "senha") {
		t.Fatalf("user response exposes password data: %s", body)
	}
	if !strings.Contains(body, `"ativo":true`) {
		t.Fatalf("expected ativo=true in response: %s", body)
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	api, store, _ := newTestAPI(t)

	createTestUser(t, api, "a@b.com", "senha123")

	body := `{"nome_completo": "Outro", "email": "a@b.com", "senha": "senha456"}`
	res := api.serve(httptest.NewRequest(
		http.MethodPost, "/usuarios", strings.NewReader(body),
	))
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", res.Code)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected no new record persisted, got %d users", len(store.users))
	}
}

func TestLoginFailures(t *testing.T) {
	api, store, _ := newTestAPI(t)
	createTestUser(t, api, "a@b.com", "senha123")

	res := api.serve(httptest.NewRequest(
		http.MethodPost, "/login", strings.NewReader(`{"email": "a@b.com", "senha": "errada1"}`),
	))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", res.Code)
	}

	res = api.serve(httptest.NewRequest(
		http.MethodPost, "/login", strings.NewReader(`{"email": "x@y.com", "senha": "senha123"}`),
	))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", res.Code)
	}

	// Deactivated accounts are rejected with 403 even with correct credentials.
	user := store.users[1]
	user.Ativo = false
	store.users[1] = user

	res = api.serve(httptest.NewRequest(
		http.MethodPost, "/login", strings.NewReader(`{"email": "a@b.com", "senha": "senha123"}`),
	))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for inactive user, got %d", res.Code)
	}
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	api, _, _ := newTestAPI(t)
	createTestUser(t, api, "a@b.com", "senha123")

	res := api.serve(httptest.NewRequest(http.MethodGet, "/usuarios", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	if res := api.serve(req); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", res.Code)
	}

	token := loginTestUser(t, api, "a@b.com", "senha123")
	req = httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if res := api.serve(req); res.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", res.Code)
	}
}

func TestReportValidationNeverReachesWarehouse(t *testing.T) {
	api, _, exec := newTestAPI(t)

	paths := []string{
		"/api/v1/politicos/busca/a",
		"/api/v1/analise-partido/PL/municipal/SP",
		"/api/v1/analise-partido/PL/estadual",
		"/api/v1/analise-partido/PL/federal/SP",
		"/api/v1/votos-partido?sigla_partido=PL",
		"/api/v1/custo-voto?sigla_partido=PL",
		"/api/v1/fundos-publicos?anos=2022",
	}
	for _, path := range paths {
		res := api.serve(httptest.NewRequest(http.MethodGet, path, nil))
		if res.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d: %s", path, res.Code, res.Body.String())
		}
	}

	if exec.calls != 0 {
		t.Fatalf("expected no warehouse calls for invalid requests, got %d", exec.calls)
	}
}

func TestValidReportRequest(t *testing.T) {
	api, _, exec := newTestAPI(t)

	res := api.serve(httptest.NewRequest(
		http.MethodGet,
		"/api/v1/votos-partido?sigla_partido=novo&sigla_uf=rs&cargo=Governador&ano=2022&turnos=1,2",
		nil,
	))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if exec.calls != 1 {
		t.Fatalf("expected one warehouse round trip, got %d", exec.calls)
	}
}

func TestRootAndHealth(t *testing.T) {
	api, _, _ := newTestAPI(t)

	res := api.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 from root, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Bem-vindo") {
		t.Fatalf("expected welcome banner, got: %s", res.Body.String())
	}

	res = api.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", res.Code)
	}
}
