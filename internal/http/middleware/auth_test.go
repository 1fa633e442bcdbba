package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kajianhub/backend/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, ok := AdminLoginFromContext(r.Context())
		if !ok {
			t.Fatalf("admin login missing from context")
		}
		w.Write([]byte(login))
	}))

	token, err := auth.SignAccessToken(secret, "admin")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/kajian", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "admin" {
		t.Fatalf("unexpected login: %q", rec.Body.String())
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	handler := AuthMiddleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/kajian", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, rec.Code)
		}
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := auth.SignAccessToken("other-secret", "admin")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	handler := AuthMiddleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/kajian", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
