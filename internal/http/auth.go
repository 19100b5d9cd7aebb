package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrUnauthenticated means the request carries no usable identity.
var ErrUnauthenticated = errors.New("request is not authenticated")

// Authenticator resolves the opaque user identity of a request. The session
// system in front of this service is expected to set the identity; this
// boundary only reads it.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// HeaderAuthenticator trusts the X-User-ID header set by the reverse proxy
// after session validation.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.Authenticate(r)
		if err != nil {
			slog.WarnContext(r.Context(), "Unauthenticated request", "url", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r, userID)
	}
}
