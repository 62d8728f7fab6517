package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripsage/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, userID string, roles []string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   userID,
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	var gotUser string
	var gotRoles []string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRoles, _ = r.Context().Value(globals.RoleKey).([]string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", []string{"member"}))
	w := httptest.NewRecorder()
	handler(w, req, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "u1" {
		t.Errorf("expected user u1 in context, got %q", gotUser)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "member" {
		t.Errorf("expected member role in context, got %v", gotRoles)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler should not run")
	})

	headers := []string{
		"",
		"garbage",
		"Bearer not.a.jwt",
		"Token " + signedToken(t, "u1", nil),
	}
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		w := httptest.NewRecorder()
		handler(w, req, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", h, w.Code)
		}
	}
}

func TestValidateJWTRequiresBearerPrefix(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	raw := signedToken(t, "u1", nil)
	if _, err := ValidateJWT(raw); err == nil {
		t.Error("bare token without Bearer prefix should fail")
	}
	claims, err := ValidateJWT("Bearer " + raw)
	if err != nil {
		t.Fatalf("valid bearer token rejected: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("expected u1, got %q", claims.UserID)
	}
}

func TestOptionalAuthProceedsWithoutToken(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if _, ok := r.Context().Value(globals.UserIDKey).(string); ok {
			t.Error("anonymous request should carry no user")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	w := httptest.NewRecorder()
	handler(w, req, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
