// AngelaMos | 2026
// service_test.go

package asset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/assetdesk/internal/config"
	"github.com/carterperez-dev/assetdesk/internal/core"
	"github.com/carterperez-dev/assetdesk/internal/media"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *media.Store) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close() //nolint:errcheck // test cleanup
	})

	store, err := media.NewStore(config.UploadConfig{
		Dir:      t.TempDir(),
		MaxBytes: 1 << 20,
	})
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "pgx")
	return NewService(NewRepository(db), store), mock, store
}

func assetRows(status string, image *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "category_id", "serial_number", "purchase_date",
		"status", "assigned_to_id", "assigned_at", "image",
		"created_at", "updated_at",
	}).AddRow(
		"asset-1", "MacBook Pro 14", "cat-1", "SN-001", time.Now(),
		status, nil, nil, image,
		time.Now(), time.Now(),
	)
}

func assetDetailRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "category_id", "serial_number", "purchase_date",
		"status", "assigned_to_id", "assigned_at", "image",
		"created_at", "updated_at",
		"category_name", "assignee_name", "assignee_email",
	}).AddRow(
		"asset-1", "MacBook Pro 14", "cat-1", "SN-001", time.Now(),
		status, nil, nil, nil,
		time.Now(), time.Now(),
		"Laptops", nil, nil,
	)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	req := CreateAssetRequest{
		Name:         "MacBook Pro 14",
		CategoryID:   "cat-1",
		SerialNumber: "SN-001",
		PurchaseDate: time.Now(),
	}

	t.Run("new assets start available", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("INSERT INTO assets").
			WithArgs(
				sqlmock.AnyArg(),
				req.Name,
				req.CategoryID,
				req.SerialNumber,
				req.PurchaseDate,
				StatusAvailable,
			).
			WillReturnRows(
				sqlmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(time.Now(), time.Now()),
			)
		mock.ExpectQuery("FROM assets a").
			WillReturnRows(assetDetailRows(StatusAvailable))

		detail, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, StatusAvailable, detail.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate serial conflicts", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("INSERT INTO assets").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("INSERT INTO assets").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestServiceForceStatus(t *testing.T) {
	t.Parallel()

	t.Run("assigned is not a valid target", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newMockService(t)

		_, err := svc.ForceStatus(context.Background(), "asset-1", StatusAssigned)
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newMockService(t)

		_, err := svc.ForceStatus(context.Background(), "asset-1", "broken")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("forcing available clears the assignment", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows(StatusAssigned, nil))
		mock.ExpectExec("(?s)UPDATE assets.+assigned_to_id = NULL").
			WithArgs("asset-1", StatusAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("FROM assets a").
			WillReturnRows(assetDetailRows(StatusAvailable))

		detail, err := svc.ForceStatus(
			context.Background(),
			"asset-1",
			StatusAvailable,
		)
		require.NoError(t, err)
		require.Equal(t, StatusAvailable, detail.Status)
		require.Nil(t, detail.AssignedToID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maintenance keeps the assignment fields alone", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows(StatusAvailable, nil))
		mock.ExpectExec("UPDATE assets").
			WithArgs("asset-1", StatusMaintenance).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("FROM assets a").
			WillReturnRows(assetDetailRows(StatusMaintenance))

		detail, err := svc.ForceStatus(
			context.Background(),
			"asset-1",
			StatusMaintenance,
		)
		require.NoError(t, err)
		require.Equal(t, StatusMaintenance, detail.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes the stored image with the asset", func(t *testing.T) {
		t.Parallel()
		svc, mock, store := newMockService(t)

		imageName := "asset-old.png"
		imagePath := filepath.Join(store.Dir(), imageName)
		require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o640))

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows(StatusRetired, &imageName))
		mock.ExpectExec("DELETE FROM assets").
			WithArgs("asset-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.Delete(context.Background(), "asset-1"))

		_, err := os.Stat(imagePath)
		require.ErrorIs(t, err, os.ErrNotExist)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing asset", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := svc.Delete(context.Background(), "asset-404")
		require.ErrorIs(t, err, core.ErrNotFound)
	})
}
