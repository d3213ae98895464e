package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/users"
	"hermannm.dev/devlog/log"
)

type contextKey uint8

const currentUserKey contextKey = iota

// requireAuth wraps a handler so it only runs for requests carrying a valid
// bearer token for an active account. The resolved user is stored on the
// request context (see currentUser).
func (api LabVotoAPI) requireAuth(handler http.HandlerFunc) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		authHeader := req.Header.Get("Authorization")
		if authHeader == "" {
			sendAppError(res, apperrors.Auth("cabeçalho Authorization ausente"))
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			sendAppError(res, apperrors.Auth("cabeçalho Authorization inválido"))
			return
		}

		email, err := api.tokens.VerifyToken(token, time.Now())
		if err != nil {
			sendAppError(res, err)
			return
		}

		user, err := api.users.GetByEmail(req.Context(), email)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				err = apperrors.Auth("não foi possível validar as credenciais")
			}
			sendAppError(res, err)
			return
		}

		if !user.Ativo {
			sendAppError(res, users.ErrUsuarioInativo)
			return
		}

		ctx := context.WithValue(req.Context(), currentUserKey, user)
		handler(res, req.WithContext(ctx))
	}
}

func currentUser(ctx context.Context) (users.User, bool) {
	user, ok := ctx.Value(currentUserKey).(users.User)
	return user, ok
}

func isInactiveUserError(err error) bool {
	return errors.Is(err, users.ErrUsuarioInativo)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		requestID := uuid.NewString()
		recorder := statusRecorder{ResponseWriter: res, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(&recorder, req)

		log.Info(
			"request handled",
			slog.String("requestId", requestID),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", recorder.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// corsMiddleware allows cross-origin requests from any origin, matching the
// original deployment (the frontend is served from a separate host).
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.Header().Set("Access-Control-Allow-Origin", "*")
		res.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		res.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if req.Method == http.MethodOptions {
			res.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(res, req)
	})
}
