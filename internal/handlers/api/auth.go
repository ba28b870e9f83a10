package api

import (
	"context"
	"net/http"

	"github.com/KirkDiggler/quizroom/internal/identity"
)

type identityKey struct{}

// authenticate resolves the bearer token and stores the caller on the request context
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.identity.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="quizroom"`)
			writeFailure(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	})
}

func caller(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityKey{}).(*identity.Identity)
	return id
}
