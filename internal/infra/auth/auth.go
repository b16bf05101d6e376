// Package auth resolves the requesting actor. The auth provider itself is
// external; this package only verifies its bearer tokens and reads guest
// tokens, it never issues anything.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventor-ai/balloond/internal/domain"
)

// GuestTokenHeader carries the persistent anonymous guest token.
const GuestTokenHeader = "X-Guest-Token"

// Resolver maps HTTP requests to actors.
type Resolver struct {
	secret []byte
}

// NewResolver creates a resolver verifying HS256 bearer tokens with secret.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// FromRequest resolves the actor behind a request. A valid bearer JWT wins
// over a guest token; a request with neither is unauthorized.
func (r *Resolver) FromRequest(req *http.Request) (domain.Actor, error) {
	if authz := req.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return r.fromBearer(strings.TrimPrefix(authz, "Bearer "))
	}

	if token := req.Header.Get(GuestTokenHeader); token != "" {
		if _, err := uuid.Parse(token); err != nil {
			return domain.Actor{}, fmt.Errorf("%w: malformed guest token", domain.ErrUnauthorized)
		}
		return domain.GuestActor(token), nil
	}

	return domain.Actor{}, domain.ErrUnauthorized
}

func (r *Resolver) fromBearer(raw string) (domain.Actor, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, fmt.Errorf("%w: invalid bearer token", domain.ErrUnauthorized)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return domain.AccountActor(sub), nil
}
