// AngelaMos | 2026
// storage_test.go

package media

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/assetdesk/internal/config"
	"github.com/carterperez-dev/assetdesk/internal/core"
)

// Minimal valid PNG header so content sniffing resolves to image/png.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
}

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()

	store, err := NewStore(config.UploadConfig{
		Dir:      t.TempDir(),
		MaxBytes: maxBytes,
	})
	require.NoError(t, err)
	return store
}

func uploadFile(
	t *testing.T,
	content []byte,
) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = file.Close() //nolint:errcheck // test cleanup
	})

	return file, header
}

func TestStoreSave(t *testing.T) {
	t.Parallel()

	t.Run("stores a png with generated name", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 1<<20)

		file, header := uploadFile(t, pngBytes)

		name, err := store.Save(file, header, "asset")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(name, "asset-"))
		require.True(t, strings.HasSuffix(name, ".png"))

		_, err = os.Stat(filepath.Join(store.Dir(), name))
		require.NoError(t, err)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 1<<20)

		file, header := uploadFile(t, []byte("#!/bin/sh\necho not an image\n"))

		_, err := store.Save(file, header, "asset")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 64)

		big := append(
			append([]byte{}, pngBytes...),
			bytes.Repeat([]byte{0x00}, 256)...,
		)
		file, header := uploadFile(t, big)

		_, err := store.Save(file, header, "asset")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes a stored file", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 1<<20)

		file, header := uploadFile(t, pngBytes)
		name, err := store.Save(file, header, "profile")
		require.NoError(t, err)

		require.NoError(t, store.Remove(name))

		_, err = os.Stat(filepath.Join(store.Dir(), name))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 1<<20)

		require.NoError(t, store.Remove("profile-gone.png"))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t, 1<<20)

		require.ErrorIs(
			t,
			store.Remove("../etc/passwd"),
			core.ErrInvalidInput,
		)
	})
}
