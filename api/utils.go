package api

import (
	"encoding/json"
	"net/http"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func sendJSON(res http.ResponseWriter, value any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(res).Encode(value); err != nil {
		log.ErrorCause(err, "failed to serialize response")
	}
}

func sendError(res http.ResponseWriter, statusCode int, err error, message string) {
	if err != nil {
		if message == "" {
			message = err.Error()
		} else {
			message = wrap.Error(err, message).Error()
		}
	}

	if statusCode >= http.StatusInternalServerError {
		if err != nil {
			log.ErrorCause(err, message)
		} else {
			log.Warn(message)
		}
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	_ = json.NewEncoder(res).Encode(errorResponse{Detail: message})
}

func sendClientError(res http.ResponseWriter, err error, message string) {
	sendError(res, http.StatusBadRequest, err, message)
}

func sendServerError(res http.ResponseWriter, err error, message string) {
	sendError(res, http.StatusInternalServerError, err, message)
}

// sendAppError maps the error taxonomy to HTTP status codes: validation to
// 400, auth to 401 (403 for inactive accounts), not found to 404, conflict
// to 409, and execution failures to 500.
func sendAppError(res http.ResponseWriter, err error) {
	var statusCode int
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		statusCode = http.StatusBadRequest
	case apperrors.KindAuth:
		if isInactiveUserError(err) {
			statusCode = http.StatusForbidden
		} else {
			statusCode = http.StatusUnauthorized
		}
	case apperrors.KindNotFound:
		statusCode = http.StatusNotFound
	case apperrors.KindConflict:
		statusCode = http.StatusConflict
	default:
		statusCode = http.StatusInternalServerError
	}

	sendError(res, statusCode, err, "")
}
