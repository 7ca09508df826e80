package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/domain"
	"inkwell/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

func (fakeVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, httputil.GetUserID(r))
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		verifier   auth.JWTVerifier
		path       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "local mode", verifier: nil, path: "/api/projects", wantStatus: http.StatusOK, wantUser: "local"},
		{name: "valid token", verifier: fakeVerifier{}, path: "/api/projects", header: "Bearer good", wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "invalid token", verifier: fakeVerifier{}, path: "/api/projects", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "missing header", verifier: fakeVerifier{}, path: "/api/projects", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", verifier: fakeVerifier{}, path: "/api/projects", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "public path", verifier: fakeVerifier{}, path: "/health", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AuthMiddleware(tt.verifier, "local", discardLogger())(echoUser())
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantUser {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.wantUser)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
