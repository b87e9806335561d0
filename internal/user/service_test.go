// AngelaMos | 2026
// service_test.go

package user

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func userRows(id, role string, profileImage *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role",
		"profile_image", "token_version", "created_at", "updated_at",
		"deleted_at",
	}).AddRow(
		id, "jordan@example.com", "hash", "Jordan", "Reyes", role,
		profileImage, 1, time.Now(), time.Now(),
		nil,
	)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	svc, mock, _ := newMockService(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			sqlmock.AnyArg(),
			"jordan@example.com",
			"hash",
			"Jordan",
			"Reyes",
			RoleUser,
		).
		WillReturnRows(
			sqlmock.NewRows(
				[]string{"created_at", "updated_at", "token_version"},
			).AddRow(time.Now(), time.Now(), 1),
		)

	// Email is normalized and self-registration never grants admin.
	info, err := svc.Create(
		context.Background(),
		"Jordan@Example.com",
		"hash",
		"Jordan",
		"Reyes",
	)
	require.NoError(t, err)
	require.Equal(t, "jordan@example.com", info.Email)
	require.Equal(t, RoleUser, info.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceUpdateUserRole(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown roles", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newMockService(t)

		_, err := svc.UpdateUserRole(context.Background(), "u-1", "superuser")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("promotes to admin", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-1", RoleUser, nil))
		mock.ExpectQuery("UPDATE users").
			WithArgs("u-1", "Jordan", "Reyes", RoleAdmin).
			WillReturnRows(
				sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()),
			)

		updated, err := svc.UpdateUserRole(context.Background(), "u-1", RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, RoleAdmin, updated.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceCanDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("users may delete themselves", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newMockService(t)

		require.NoError(t, svc.CanDeleteUser(context.Background(), "u-1", "u-1"))
	})

	t.Run("non-admins cannot delete others", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-1", RoleUser, nil))

		err := svc.CanDeleteUser(context.Background(), "u-1", "u-2")
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("admins cannot delete other admins", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-1", RoleAdmin, nil))
		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-2", RoleAdmin, nil))

		err := svc.CanDeleteUser(context.Background(), "u-1", "u-2")
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("admins can delete regular users", func(t *testing.T) {
		t.Parallel()
		svc, mock, _ := newMockService(t)

		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-1", RoleAdmin, nil))
		mock.ExpectQuery("FROM users").
			WillReturnRows(userRows("u-2", RoleUser, nil))

		require.NoError(t, svc.CanDeleteUser(context.Background(), "u-1", "u-2"))
	})
}

func TestServiceUpdateProfileImage(t *testing.T) {
	t.Parallel()

	svc, mock, store := newMockService(t)

	oldImage := "user-old.png"
	oldPath := filepath.Join(store.Dir(), oldImage)
	require.NoError(t, os.WriteFile(oldPath, []byte("png"), 0o640))

	mock.ExpectQuery("FROM users").
		WillReturnRows(userRows("u-1", RoleUser, &oldImage))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	file, header := uploadPNG(t)
	updated, err := svc.UpdateProfileImage(
		context.Background(),
		"u-1",
		file,
		header,
	)
	require.NoError(t, err)
	require.NotNil(t, updated.ProfileImage)
	require.NotEqual(t, oldImage, *updated.ProfileImage)

	// The replaced file is gone, the new one exists.
	_, err = os.Stat(oldPath)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(store.Dir(), *updated.ProfileImage))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func uploadPNG(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	png := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = file.Close() //nolint:errcheck // test cleanup
	})

	return file, header
}
