// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (v *stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return v.claims, v.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithRole(role, userID string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	t.Run("missing token is unauthorized", func(t *testing.T) {
		t.Parallel()

		verifier := &stubVerifier{}
		rec := httptest.NewRecorder()

		Authenticator(verifier)(okHandler()).
			ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		t.Parallel()

		verifier := &stubVerifier{
			err: fmt.Errorf("verify: %w", core.ErrTokenExpired),
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer stale")

		Authenticator(verifier)(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token populates the identity context", func(t *testing.T) {
		t.Parallel()

		verifier := &stubVerifier{
			claims: &AccessTokenClaims{UserID: "u-1", Role: "admin"},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer good")

		var gotID, gotRole string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetUserID(r.Context())
			gotRole = GetUserRole(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		Authenticator(verifier)(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u-1", gotID)
		require.Equal(t, "admin", gotRole)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).ServeHTTP(rec, requestWithRole("admin", "u-1"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).ServeHTTP(rec, requestWithRole("user", "u-2"))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).
			ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			require.Equal(t, tc.want, ExtractToken(req))
		})
	}
}
