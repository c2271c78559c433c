package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestIssueAndValidate(t *testing.T) {
	s := newService(t)
	tok, err := s.IssueToken("user_123", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sub, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub != "user_123" {
		t.Errorf("subject = %q", sub)
	}
}

func TestValidateRejects(t *testing.T) {
	s := newService(t)

	other, _ := NewService("other-secret")
	foreign, _ := other.IssueToken("user_1", time.Hour)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := s.IssueToken("user_1", time.Hour)
	s.now = time.Now

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user_1", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_1"})
	forever, _ := noExp.SignedString([]byte("test-secret"))

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	anonymous, _ := noSub.SignedString([]byte("test-secret"))

	tests := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"expired":      expired,
		"alg none":     unsigned,
		"no expiry":    forever,
		"no subject":   anonymous,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := NewService(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := newService(t)
	tok, _ := s.IssueToken("user_9", 0)
	h := s.AuthMiddleware(http.HandlerFunc(NewHandler().Me))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"ok", "Bearer " + tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				var body meResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.UserID != "user_9" {
					t.Errorf("body = %+v, err %v", body, err)
				}
			}
		})
	}
}
