package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/planhub/planhub-api/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver resolves an opaque bearer token into a session. The Redis
// session store satisfies this.
type SessionResolver interface {
	Get(ctx context.Context, id string) (domainauth.Session, error)
}

// RequireSession returns a middleware that requires a valid bearer token.
// Tokens are looked up in the session store; in dev mode a static token maps
// to a fixed admin session. This is authentication only: resource ownership
// is enforced by the main application, not by this service.
func RequireSession(cfg SessionMiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			session, ok := cfg.resolve(r, token)
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "invalid_session",
					Err:     errors.New("session not found or expired"),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), &session)))
		})
	}
}

// SessionMiddlewareConfig configures RequireSession.
type SessionMiddlewareConfig struct {
	Sessions SessionResolver
	// DevToken, when non-empty, is accepted as a static admin token. Only
	// set in development configs.
	DevToken string
}

func (cfg SessionMiddlewareConfig) resolve(r *http.Request, token string) (domainauth.Session, bool) {
	if cfg.DevToken != "" && token == cfg.DevToken {
		return domainauth.Session{
			ID:     "dev",
			UserID: "dev-user",
			Role:   domainauth.RoleAdmin,
		}, true
	}
	if cfg.Sessions == nil {
		return domainauth.Session{}, false
	}
	session, err := cfg.Sessions.Get(r.Context(), token)
	if err != nil {
		return domainauth.Session{}, false
	}
	return session, true
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
