package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventor-ai/balloond/internal/domain"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestFromRequest_BearerToken(t *testing.T) {
	r := NewResolver(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42"))

	actor, err := r.FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest() error: %v", err)
	}
	if actor.Kind != domain.ActorAccount {
		t.Errorf("kind = %q, want account", actor.Kind)
	}
	if actor.ID != "user-42" {
		t.Errorf("id = %q, want user-42", actor.ID)
	}
}

func TestFromRequest_WrongSecretRejected(t *testing.T) {
	r := NewResolver(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user-42"))

	_, err := r.FromRequest(req)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("FromRequest() error = %v, want ErrUnauthorized", err)
	}
}

func TestFromRequest_ExpiredTokenRejected(t *testing.T) {
	r := NewResolver(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	raw, _ := token.SignedString([]byte(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	if _, err := r.FromRequest(req); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("FromRequest() error = %v, want ErrUnauthorized", err)
	}
}

func TestFromRequest_GuestToken(t *testing.T) {
	r := NewResolver(testSecret)
	token := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set(GuestTokenHeader, token)

	actor, err := r.FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest() error: %v", err)
	}
	if actor.Kind != domain.ActorGuest {
		t.Errorf("kind = %q, want guest", actor.Kind)
	}
	if actor.ID != token {
		t.Errorf("id = %q, want %q", actor.ID, token)
	}
}

func TestFromRequest_MalformedGuestToken(t *testing.T) {
	r := NewResolver(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set(GuestTokenHeader, "../../etc/passwd")

	if _, err := r.FromRequest(req); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("FromRequest() error = %v, want ErrUnauthorized", err)
	}
}

func TestFromRequest_NoIdentity(t *testing.T) {
	r := NewResolver(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)

	if _, err := r.FromRequest(req); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("FromRequest() error = %v, want ErrUnauthorized", err)
	}
}

func TestFromRequest_BearerWinsOverGuest(t *testing.T) {
	r := NewResolver(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/balloons", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42"))
	req.Header.Set(GuestTokenHeader, uuid.New().String())

	actor, err := r.FromRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	if actor.Kind != domain.ActorAccount {
		t.Errorf("kind = %q, want account (bearer takes precedence)", actor.Kind)
	}
}
