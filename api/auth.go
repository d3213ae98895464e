package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges email and password for a bearer token.
func (api LabVotoAPI) Login(res http.ResponseWriter, req *http.Request) {
	var credentials LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&credentials); err != nil {
		sendClientError(res, err, "failed to parse login request body")
		return
	}

	user, err := api.users.Authenticate(req.Context(), credentials.Email, credentials.Senha)
	if err != nil {
		sendAppError(res, err)
		return
	}

	token, err := api.tokens.NewToken(user.Email, time.Now())
	if err != nil {
		sendServerError(res, err, "failed to issue token")
		return
	}

	sendJSON(res, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

type BuscaResult struct {
	ID        int    `json:"id"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
}

type BuscaResponse struct {
	Resultados []BuscaResult `json:"resultados"`
	Total      int           `json:"total"`
}

// Busca is the authenticated search placeholder carried over from the
// original API surface. It echoes the query back as example results.
func (api LabVotoAPI) Busca(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("query")

	resultados := []BuscaResult{}
	if query != "" {
		resultados = []BuscaResult{
			{ID: 1, Titulo: fmt.Sprintf("Resultado para: %s", query), Descricao: "Descrição do resultado"},
			{ID: 2, Titulo: fmt.Sprintf("Outro resultado: %s", query), Descricao: "Mais uma descrição"},
		}
	}

	sendJSON(res, BuscaResponse{Resultados: resultados, Total: len(resultados)})
}
