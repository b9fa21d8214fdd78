package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rental-backoffice/internal/config"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/security"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with an id, recovers panics and logs the outcome
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := logger.WithRequestID(r.Context(), id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "Panic in handler", "panic", fmt.Sprint(p))
				writeFailure(rec, http.StatusInternalServerError, "Errore interno del server")
			}
			logger.InfoContext(ctx, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

// AuthMiddleware validates bearer tokens against the route's security level
type AuthMiddleware struct {
	tokenManager security.TokenManager
	users        repository.UserRepository
}

func NewAuthMiddleware(tm security.TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, users: users}
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAccess
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				level = config.RequiredSecurity(r.Method, tpl)
			}
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			writeFailure(w, http.StatusUnauthorized, "Token mancante")
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			logger.WarnContext(r.Context(), "Rejected token", "error", err)
			writeFailure(w, http.StatusUnauthorized, "Token non valido")
			return
		}

		// Role and active flag are read from the database, not from the claims
		user, err := a.users.GetByID(r.Context(), claims.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, err)
			return
		}
		if user == nil || !user.IsActive {
			writeFailure(w, http.StatusUnauthorized, "Utente non attivo")
			return
		}

		if level == config.SecurityAdmin && !user.IsAdmin() {
			writeFailure(w, http.StatusForbidden, "Accesso non autorizzato")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}
