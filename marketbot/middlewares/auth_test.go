package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"marketbot/marketbot/config"
)

func serveWith(cfg config.Config, req *http.Request) *httptest.ResponseRecorder {
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthOpenWithoutSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bot/status", nil)
	if rr := serveWith(config.Config{}, req); rr.Code != http.StatusOK {
		t.Errorf("got %d, want open access without a secret", rr.Code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "s3cret"}
	req := httptest.NewRequest(http.MethodGet, "/bot/status", nil)
	if rr := serveWith(cfg, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/bot/status", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if rr := serveWith(cfg, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401 for a garbage token", rr.Code)
	}
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "s3cret"}
	token, err := jwt.New(jwt.SigningMethodHS256).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/bot/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rr := serveWith(cfg, req); rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200 with a valid token", rr.Code)
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	token, err := jwt.New(jwt.SigningMethodHS256).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/bot/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rr := serveWith(config.Config{JWTSecret: "s3cret"}, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401 for a token signed with the wrong secret", rr.Code)
	}
}
