package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// principal is the identity resolved for a request. The engine trusts
// the token's claims and does not re-verify credentials.
type principal struct {
	UserID   string
	Username string
}

type authedHandler func(w http.ResponseWriter, r *http.Request, p principal)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.resolvePrincipal(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r, p)
	}
}

func (s *Server) resolvePrincipal(r *http.Request) (principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return principal{}, errors.New("authorization header is required")
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return principal{}, errors.New("authorization header must be 'Bearer <token>'")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.AuthSecret), nil
	})
	if err != nil || !token.Valid {
		return principal{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return principal{}, errors.New("invalid token claims")
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return principal{}, errors.New("invalid token: missing user id")
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return principal{}, errors.New("invalid token: missing username")
	}
	return principal{UserID: userID, Username: username}, nil
}
