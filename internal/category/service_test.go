// AngelaMos | 2026
// service_test.go

package category

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close() //nolint:errcheck // test cleanup
	})

	db := sqlx.NewDb(mockDB, "pgx")
	return NewService(NewRepository(db)), mock
}

func categoryRows(name, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "status", "created_at", "updated_at",
	}).AddRow("cat-1", name, "", status, time.Now(), time.Now())
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	req := CreateCategoryRequest{Name: "Laptops", Description: "Work laptops"}

	t.Run("creates an active category", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("INSERT INTO categories").
			WithArgs(sqlmock.AnyArg(), "Laptops", "Work laptops", StatusActive).
			WillReturnRows(
				sqlmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(time.Now(), time.Now()),
			)

		category, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, StatusActive, category.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("INSERT INTO categories").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, core.ErrConflict)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies partial updates", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM categories").
			WillReturnRows(categoryRows("Laptops", StatusActive))

		status := StatusInactive
		mock.ExpectQuery("UPDATE categories").
			WithArgs("cat-1", "Laptops", "", status).
			WillReturnRows(
				sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()),
			)

		category, err := svc.Update(
			context.Background(),
			"cat-1",
			UpdateCategoryRequest{Status: &status},
		)
		require.NoError(t, err)
		require.Equal(t, StatusInactive, category.Status)
		require.Equal(t, "Laptops", category.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing category", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM categories").WillReturnError(sql.ErrNoRows)

		_, err := svc.Update(
			context.Background(),
			"cat-404",
			UpdateCategoryRequest{},
		)
		require.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes an empty category", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectExec("DELETE FROM categories").
			WithArgs("cat-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.Delete(context.Background(), "cat-1"))
	})

	t.Run("category with assets conflicts", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectExec("DELETE FROM categories").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := svc.Delete(context.Background(), "cat-1")
		require.ErrorIs(t, err, core.ErrConflict)
	})
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%Lap%", StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM categories").
		WithArgs("%Lap%", StatusActive, 20, 0).
		WillReturnRows(categoryRows("Laptops", StatusActive))

	categories, total, err := svc.List(context.Background(), ListCategoriesParams{
		Search: "Lap",
		Status: StatusActive,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, categories, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
