// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodePaginated(t *testing.T, rec *httptest.ResponseRecorder) PaginatedResponse {
	t.Helper()

	var body PaginatedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestPaginatedTotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{"exact fit", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"single short page", 5, 20, 1},
		{"empty result", 0, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			Paginated(rec, []string{}, 1, tc.pageSize, tc.total)

			body := decodePaginated(t, rec)
			require.True(t, body.Success)
			require.Equal(t, tc.total, body.Total)
			require.Equal(t, tc.totalPages, body.TotalPages)
		})
	}
}

func TestConflictUsesBadRequestStatus(t *testing.T) {
	t.Parallel()

	// Business-rule failures are client errors, not 409s.
	rec := httptest.NewRecorder()
	Conflict(rec, "asset is not available")

	require.Equal(t, 400, rec.Code)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.False(t, body.Success)
	require.Equal(t, "CONFLICT", body.Code)
	require.Equal(t, "asset is not available", body.Message)
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("app errors keep their status and code", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		JSONError(rec, UnauthorizedError("authentication required"))

		require.Equal(t, 401, rec.Code)

		var body Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "UNAUTHORIZED", body.Code)
	})

	t.Run("unknown errors become internal errors", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		JSONError(rec, ErrConflict)

		require.Equal(t, 500, rec.Code)
	})
}
