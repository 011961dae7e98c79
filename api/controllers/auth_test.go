package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/internal/auth"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
)

type stubAuthService struct {
	result    *auth.LoginResult
	err       error
	lastInput auth.LoginInput
}

func (s *stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	s.lastInput = input
	return s.result, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	user := &models.User{
		ID:        uuid.New(),
		Nom:       "Awa Kone",
		Telephone: "+2250701020304",
		Role:      "admin",
		IsActive:  true,
	}
	svc := &stubAuthService{result: &auth.LoginResult{User: user, Token: "jwt-token"}}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"telephone":"+2250701020304","motDePasse":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.Telephone != "+2250701020304" {
		t.Fatalf("expected telephone forwarded got %q", svc.lastInput.Telephone)
	}

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Token != "jwt-token" {
		t.Fatalf("expected token in payload got %q", payload.Token)
	}
	if payload.User == nil || payload.User.Nom != "Awa Kone" {
		t.Fatalf("expected user in payload got %+v", payload.User)
	}
}

func TestAuthLoginMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"telephone":"+2250701020304"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Identifiants invalides")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"telephone":"+2250701020304","motDePasse":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Identifiants invalides" {
		t.Fatalf("expected french message got %q", envelope.Error.Message)
	}
}

func TestAuthLogout(t *testing.T) {
	handler := AuthLogout()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["message"] != "Deconnexion reussie" {
		t.Fatalf("expected logout message got %q", payload["message"])
	}
}
