package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin_SuccessReturnsToken(t *testing.T) {
	env := newTestEnv(t)
	if err := env.auth.EnsureAdminAccount(context.Background(), "s3cret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin@example.org","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	env.r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token == "" || resp.User == nil || resp.User.Email != "admin@example.org" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// The issued token resolves back to the admin identity.
	if _, err := env.auth.CurrentAdminIdentity(resp.Token); err != nil {
		t.Fatalf("token rejected: %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	if err := env.auth.EnsureAdminAccount(context.Background(), "s3cret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		env.r.ServeHTTP(w, req)
		return w
	}

	if w := post(`{"email":"admin@example.org"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", w.Code)
	}
	if w := post(`{"email":"admin@example.org","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
	if w := post(`{"email":"nobody@example.org","password":"s3cret"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", w.Code)
	}
}

func TestLogout_AlwaysNoContent(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestMe_EchoesContextIdentity(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["email"] != "admin@example.org" || body["user_id"] != "u-admin" {
		t.Fatalf("unexpected identity: %v", body)
	}
}
