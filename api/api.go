package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labvotodev-ia/labvoto-back/auth"
	"github.com/labvotodev-ia/labvoto-back/config"
	"github.com/labvotodev-ia/labvoto-back/users"
	"github.com/labvotodev-ia/labvoto-back/warehouse"
)

// UserStore is the credential store contract the API depends on, implemented
// by users.Store (handler tests substitute an in-memory store).
type UserStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, newUser users.NewUser) (users.User, error)
	GetByID(ctx context.Context, id int64) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
	List(ctx context.Context, offset int, limit int) ([]users.User, error)
	Update(ctx context.Context, id int64, update users.UserUpdate) (users.User, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email string, password string) (users.User, error)
}

type LabVotoAPI struct {
	users     UserStore
	warehouse warehouse.Warehouse
	tokens    auth.TokenIssuer
	router    *http.ServeMux
	config    config.API
}

func NewLabVotoAPI(
	userStore UserStore,
	warehouse warehouse.Warehouse,
	tokens auth.TokenIssuer,
	router *http.ServeMux,
	config config.API,
) LabVotoAPI {
	api := LabVotoAPI{
		users:     userStore,
		warehouse: warehouse,
		tokens:    tokens,
		router:    router,
		config:    config,
	}

	api.router.HandleFunc("GET /{$}", api.Root)
	api.router.HandleFunc("GET /health", api.Health)
	api.router.HandleFunc("POST /login", api.Login)
	api.router.HandleFunc("GET /busca", api.requireAuth(api.Busca))

	api.router.HandleFunc("POST /usuarios", api.CreateUser)
	api.router.HandleFunc("GET /usuarios", api.requireAuth(api.ListUsers))
	api.router.HandleFunc("GET /usuarios/{id}", api.requireAuth(api.GetUser))
	api.router.HandleFunc("PUT /usuarios/{id}", api.requireAuth(api.UpdateUser))
	api.router.HandleFunc("DELETE /usuarios/{id}", api.requireAuth(api.DeleteUser))

	api.router.HandleFunc("GET /api/v1/politicos/busca/{nome}", api.SearchCandidates)
	api.router.HandleFunc(
		"GET /api/v1/analise-partido/{partido}/{abrangencia}", api.ElectedSeatsByParty,
	)
	api.router.HandleFunc(
		"GET /api/v1/analise-partido/{partido}/{abrangencia}/{uf}", api.ElectedSeatsByParty,
	)
	api.router.HandleFunc("GET /api/v1/votos-partido", api.PartyVoteShare)
	api.router.HandleFunc("GET /api/v1/custo-voto", api.CostPerVote)
	api.router.HandleFunc("GET /api/v1/fundos-publicos", api.PublicFundDistribution)

	return api
}

func (api LabVotoAPI) ListenAndServe() error {
	handler := requestLogMiddleware(corsMiddleware(api.router))
	return http.ListenAndServe(fmt.Sprintf(":%s", api.config.Port), handler)
}

func (api LabVotoAPI) Root(res http.ResponseWriter, req *http.Request) {
	sendJSON(res, map[string]string{"message": "Bem-vindo ao LabVotoAI API"})
}

func (api LabVotoAPI) Health(res http.ResponseWriter, req *http.Request) {
	if err := api.users.Ping(req.Context()); err != nil {
		sendServerError(res, err, "database connection error")
		return
	}

	health := map[string]string{"status": "ok", "database": "connected"}

	if err := api.warehouse.Ping(req.Context()); err != nil {
		health["warehouse"] = "unreachable"
	} else {
		health["warehouse"] = "connected"
	}

	sendJSON(res, health)
}
