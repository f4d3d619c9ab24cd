package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"phonebook-backend/application/ports"
	"phonebook-backend/pkg/auth"
	"phonebook-backend/pkg/errors"

	"go.uber.org/zap"
)

// Session builds the request session from the Authorization header. A missing
// header, or one without a Bearer scheme, yields an empty session and the
// request proceeds; a Bearer token that fails verification rejects the
// request.
func Session(tokens *auth.JWTManager, users ports.UserRepository, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			parts := strings.SplitN(authHeader, " ", 2)
			if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("rejected invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				respondError(w, errors.NewInvalidTokenError(""))
				return
			}

			currentUser, err := users.FindByID(r.Context(), claims.UserID())
			if err != nil {
				logger.Error("session account lookup failed", zap.Error(err))
				respondError(w, errors.NewInternalError("failed to resolve session", err))
				return
			}

			// A verified token for an account that no longer resolves
			// behaves like no token at all
			if currentUser == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithCurrentUser(r.Context(), currentUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondError sends a typed error response
func respondError(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    string(appErr.Type),
		"message": appErr.Message,
	})
}
