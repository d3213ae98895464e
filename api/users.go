package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/users"
)

func (api LabVotoAPI) CreateUser(res http.ResponseWriter, req *http.Request) {
	var newUser users.NewUser
	if err := json.NewDecoder(req.Body).Decode(&newUser); err != nil {
		sendClientError(res, err, "failed to parse user from request body")
		return
	}

	user, err := api.users.Create(req.Context(), newUser)
	if err != nil {
		sendAppError(res, err)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(res).Encode(user.Public())
}

func (api LabVotoAPI) ListUsers(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	offset, err := intQueryParam(query.Get("skip"), 0)
	if err != nil {
		sendAppError(res, err)
		return
	}
	limit, err := intQueryParam(query.Get("limit"), 100)
	if err != nil {
		sendAppError(res, err)
		return
	}

	userList, err := api.users.List(req.Context(), offset, limit)
	if err != nil {
		sendAppError(res, err)
		return
	}

	publicUsers := make([]users.PublicUser, 0, len(userList))
	for _, user := range userList {
		publicUsers = append(publicUsers, user.Public())
	}

	sendJSON(res, publicUsers)
}

func (api LabVotoAPI) GetUser(res http.ResponseWriter, req *http.Request) {
	id, err := userIDFromPath(req)
	if err != nil {
		sendAppError(res, err)
		return
	}

	user, err := api.users.GetByID(req.Context(), id)
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, user.Public())
}

func (api LabVotoAPI) UpdateUser(res http.ResponseWriter, req *http.Request) {
	id, err := userIDFromPath(req)
	if err != nil {
		sendAppError(res, err)
		return
	}

	var update users.UserUpdate
	if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
		sendClientError(res, err, "failed to parse user update from request body")
		return
	}

	user, err := api.users.Update(req.Context(), id, update)
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, user.Public())
}

func (api LabVotoAPI) DeleteUser(res http.ResponseWriter, req *http.Request) {
	id, err := userIDFromPath(req)
	if err != nil {
		sendAppError(res, err)
		return
	}

	if err := api.users.Delete(req.Context(), id); err != nil {
		sendAppError(res, err)
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

func userIDFromPath(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("id de usuário inválido")
	}
	return id, nil
}

func intQueryParam(value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.Validationf("parâmetro numérico inválido: '%s'", value)
	}
	return parsed, nil
}
