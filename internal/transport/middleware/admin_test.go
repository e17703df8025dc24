package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/grimoire-backend/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]string // token -> role

func (s stubTokens) ValidateAccessToken(token string) (string, string, error) {
	role, ok := s[token]
	if !ok {
		return "", "", errors.New("parse token: signature is invalid")
	}
	return "svc-" + token, role, nil
}

type stubBasic struct{ user, password string }

func (s stubBasic) Verify(user, password string) bool {
	return user == s.user && password == s.password
}

func TestAdminAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	mw := AdminAuth(stubBasic{"ops", "s3cret"}, stubTokens{"good": "admin", "reader": "viewer"}, logger)

	tests := []struct {
		name        string
		setup       func(r *http.Request)
		wantStatus  int
		wantSubject string
		wantMethod  string
	}{
		{
			name:       "no header",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Digest abc") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "basic ok",
			setup:       func(r *http.Request) { r.SetBasicAuth("ops", "s3cret") },
			wantStatus:  http.StatusOK,
			wantSubject: "ops",
			wantMethod:  "basic",
		},
		{
			name:       "basic wrong password",
			setup:      func(r *http.Request) { r.SetBasicAuth("ops", "nope") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic malformed",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "bearer admin",
			setup:       func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			wantStatus:  http.StatusOK,
			wantSubject: "svc-good",
			wantMethod:  "bearer",
		},
		{
			name:       "bearer non-admin",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer reader") },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "bearer invalid",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ctxutil.Principal
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = ctxutil.PrincipalFromCtx(r.Context())
				require.True(t, ctxutil.IsAdminCtx(r.Context()))
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/spell-reference-hydrate", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantSubject, got.Subject)
				assert.Equal(t, tt.wantMethod, got.Method)
			}
		})
	}
}

func TestAdminAuth_DisabledSchemes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	mw := AdminAuth(nil, nil, logger)
	handler := mw(okHandler())

	for _, header := range []string{"Bearer good", "Basic b3BzOnMzY3JldA=="} {
		req := httptest.NewRequest(http.MethodGet, "/api/spell-reference-hydrate", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}
