// AngelaMos | 2026
// storage.go

package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/assetdesk/internal/config"
	"github.com/carterperez-dev/assetdesk/internal/core"
)

// allowed image content types, sniffed from the file itself rather than
// trusting the upload's Content-Type header.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(cfg config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Store{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes an uploaded image under a generated name and returns the
// stored filename. The caller owns persisting the reference.
func (s *Store) Save(
	file multipart.File,
	header *multipart.FileHeader,
	prefix string,
) (string, error) {
	if header.Size > s.maxBytes {
		return "", fmt.Errorf(
			"file exceeds %d bytes: %w",
			s.maxBytes,
			core.ErrInvalidInput,
		)
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	sniff = sniff[:n]

	contentType := http.DetectContentType(sniff)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf(
			"unsupported image type %s: %w",
			contentType,
			core.ErrInvalidInput,
		)
	}

	name := fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close() //nolint:errcheck // close error surfaced by the copy below

	if _, err := dst.Write(sniff); err != nil {
		_ = os.Remove(path) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("write file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(file, s.maxBytes))
	if err != nil {
		_ = os.Remove(path) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("write file: %w", err)
	}

	if int64(n)+written > s.maxBytes {
		_ = os.Remove(path) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf(
			"file exceeds %d bytes: %w",
			s.maxBytes,
			core.ErrInvalidInput,
		)
	}

	return name, nil
}

// Remove deletes a previously stored file. Missing files are not an error,
// replacing an image must not fail because the old one is already gone.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}

	// stored names are flat; reject anything path-like
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid file name: %w", core.ErrInvalidInput)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}
