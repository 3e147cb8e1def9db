package http

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxSubjectKey ctxKey = "auth_subject"

// subjectFromContext returns the authenticated subject, empty when absent
func subjectFromContext(ctx context.Context) string {
	if subject, ok := ctx.Value(ctxSubjectKey).(string); ok {
		return subject
	}
	return ""
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// authMiddleware validates bearer tokens for protected requests.
// When authentication is disabled every request passes through with the
// verifier's fixed subject.
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				next.ServeHTTP(w, r)
				return
			}

			if authUC.IsNoAuthn() {
				subject, err := authUC.ValidateToken(r.Context(), "")
				if err != nil {
					writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
					return
				}
				ctx := context.WithValue(r.Context(), ctxSubjectKey, subject)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw := bearerToken(r)
			if raw == "" {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
				return
			}

			subject, err := authUC.ValidateToken(r.Context(), raw)
			if err != nil {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "invalid authentication token"})
				return
			}

			ctx := context.WithValue(r.Context(), ctxSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
