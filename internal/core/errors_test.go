// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := ConflictError("request has already been processed")

	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, http.StatusBadRequest, err.Status)

	wrapped := fmt.Errorf("process request: %w", err)
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
}

func TestIsAppError(t *testing.T) {
	t.Parallel()

	require.True(t, IsAppError(UnauthorizedError("")))
	require.False(t, IsAppError(errors.New("plain")))
	require.False(t, IsAppError(ErrUnauthorized))
}

func TestPostgresErrorClassification(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	require.True(t, IsDuplicateKeyError(unique))
	require.False(t, IsDuplicateKeyError(fk))
	require.True(t, IsForeignKeyError(fk))
	require.False(t, IsForeignKeyError(unique))

	wrapped := fmt.Errorf("create asset: %w", unique)
	require.True(t, IsDuplicateKeyError(wrapped))
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, EscapeLike(tc.in))
	}
}
