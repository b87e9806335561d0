// AngelaMos | 2026
// service_test.go

package request

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/assetdesk/internal/asset"
	"github.com/carterperez-dev/assetdesk/internal/core"
)

const (
	testRequestID = "6f1b2a3c-0000-4000-8000-000000000001"
	testAssetID   = "6f1b2a3c-0000-4000-8000-000000000002"
	testUserID    = "6f1b2a3c-0000-4000-8000-000000000003"
	testAdminID   = "6f1b2a3c-0000-4000-8000-000000000004"
)

var (
	memberCaller = Identity{ID: testUserID, Role: "user"}
	adminCaller  = Identity{ID: testAdminID, Role: "admin"}
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close() //nolint:errcheck // test cleanup
	})

	db := sqlx.NewDb(mockDB, "pgx")
	svc := NewService(db, NewRepository(db), asset.NewRepository(db))
	return svc, mock
}

func requestRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "asset_id", "requester_id", "status",
		"requested_at", "processed_at", "processed_by_id",
	}).AddRow(
		testRequestID, testAssetID, testUserID, status,
		time.Now(), nil, nil,
	)
}

func assetRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "category_id", "serial_number", "purchase_date",
		"status", "assigned_to_id", "assigned_at", "image",
		"created_at", "updated_at",
	}).AddRow(
		testAssetID, "MacBook Pro 14", "cat-1", "SN-001", time.Now(),
		status, nil, nil, nil,
		time.Now(), time.Now(),
	)
}

func detailRows(status, requesterID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "asset_id", "requester_id", "status",
		"requested_at", "processed_at", "processed_by_id",
		"asset_name", "asset_serial",
		"requester_name", "requester_email", "processor_name",
	}).AddRow(
		testRequestID, testAssetID, requesterID, status,
		time.Now(), nil, nil,
		"MacBook Pro 14", "SN-001",
		"Jordan Reyes", "jordan@example.com", nil,
	)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	req := CreateRequestRequest{AssetID: testAssetID}

	t.Run("rejects anonymous caller", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMockService(t)

		_, err := svc.Create(context.Background(), Identity{}, req)
		require.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("asset not found", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM assets").WillReturnError(sql.ErrNoRows)

		_, err := svc.Create(context.Background(), memberCaller, req)
		require.ErrorIs(t, err, core.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("asset not available", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows("maintenance"))

		_, err := svc.Create(context.Background(), memberCaller, req)
		require.ErrorIs(t, err, ErrAssetNotAvailable)
		require.ErrorIs(t, err, core.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows("available"))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(testAssetID, testUserID, StatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := svc.Create(context.Background(), memberCaller, req)
		require.ErrorIs(t, err, ErrDuplicatePending)
		require.ErrorIs(t, err, core.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert race resolved by unique index", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows("available"))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO asset_requests").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := svc.Create(context.Background(), memberCaller, req)
		require.ErrorIs(t, err, ErrDuplicatePending)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates pending request", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM assets").
			WillReturnRows(assetRows("available"))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO asset_requests").
			WillReturnRows(
				sqlmock.NewRows([]string{"requested_at"}).AddRow(time.Now()),
			)
		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusPending, testUserID))

		detail, err := svc.Create(context.Background(), memberCaller, req)
		require.NoError(t, err)
		require.Equal(t, StatusPending, detail.Status)
		require.Equal(t, testUserID, detail.RequesterID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("owner can read own request", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusPending, testUserID))

		detail, err := svc.Get(context.Background(), memberCaller, testRequestID)
		require.NoError(t, err)
		require.Equal(t, testRequestID, detail.ID)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusPending, "someone-else"))

		_, err := svc.Get(context.Background(), memberCaller, testRequestID)
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("admin can read any request", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusApproved, testUserID))

		detail, err := svc.Get(context.Background(), adminCaller, testRequestID)
		require.NoError(t, err)
		require.Equal(t, StatusApproved, detail.Status)
	})
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	t.Run("non-admin is scoped to own requests", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("SELECT COUNT").
			WithArgs(testUserID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("FROM asset_requests ar").
			WithArgs(testUserID, 20, 0).
			WillReturnRows(detailRows(StatusPending, testUserID))

		// The requester filter is overridden even if the caller tried to
		// look at someone else's requests.
		params := ListRequestsParams{RequesterID: "someone-else"}
		details, total, err := svc.List(context.Background(), memberCaller, params)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, details, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin sees all requests", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("FROM asset_requests ar").
			WithArgs(20, 0).
			WillReturnRows(detailRows(StatusPending, testUserID).
				AddRow(
					"req-2", testAssetID, "other-user", StatusApproved,
					time.Now(), nil, nil,
					"MacBook Pro 14", "SN-001",
					"Sam Okafor", "sam@example.com", nil,
				))

		details, total, err := svc.List(
			context.Background(),
			adminCaller,
			ListRequestsParams{},
		)
		require.NoError(t, err)
		require.Equal(t, 2, total)
		require.Len(t, details, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMockService(t)

		_, _, err := svc.List(
			context.Background(),
			Identity{},
			ListRequestsParams{},
		)
		require.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestServiceProcess(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid target status", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMockService(t)

		_, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			"pending",
		)
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("rejection never touches the asset", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(requestRows(StatusPending))
		mock.ExpectExec("UPDATE asset_requests").
			WithArgs(testRequestID, StatusRejected, testAdminID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusRejected, testUserID))

		detail, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			StatusRejected,
		)
		require.NoError(t, err)
		require.Equal(t, StatusRejected, detail.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("approval assigns the asset atomically", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("(?s)FROM asset_requests.+FOR UPDATE").
			WillReturnRows(requestRows(StatusPending))
		mock.ExpectQuery("(?s)FROM assets.+FOR UPDATE").
			WillReturnRows(assetRows("available"))
		mock.ExpectExec("UPDATE assets").
			WithArgs(testAssetID, asset.StatusAssigned, testUserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE asset_requests").
			WithArgs(testRequestID, StatusApproved, testAdminID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("FROM asset_requests ar").
			WillReturnRows(detailRows(StatusApproved, testUserID))

		detail, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			StatusApproved,
		)
		require.NoError(t, err)
		require.Equal(t, StatusApproved, detail.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal request cannot be processed again", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(requestRows(StatusApproved))
		mock.ExpectRollback()

		_, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			StatusRejected,
		)
		require.ErrorIs(t, err, ErrAlreadyProcessed)
		require.ErrorIs(t, err, core.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("approval aborts when the asset is already assigned", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		// Second of two competing approvals: the asset row shows assigned
		// once the lock is acquired, so everything rolls back and the
		// request stays pending.
		mock.ExpectBegin()
		mock.ExpectQuery("(?s)FROM asset_requests.+FOR UPDATE").
			WillReturnRows(requestRows(StatusPending))
		mock.ExpectQuery("(?s)FROM assets.+FOR UPDATE").
			WillReturnRows(assetRows(asset.StatusAssigned))
		mock.ExpectRollback()

		_, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			StatusApproved,
		)
		require.ErrorIs(t, err, ErrAssetAlreadyAssigned)
		require.ErrorIs(t, err, core.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing request rolls back", func(t *testing.T) {
		t.Parallel()
		svc, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := svc.Process(
			context.Background(),
			adminCaller,
			testRequestID,
			StatusApproved,
		)
		require.ErrorIs(t, err, core.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
