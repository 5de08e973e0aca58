package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	apperrors "tms/internal/errors"
)

// MaxImageSize is the largest image accepted by SaveImage.
const MaxImageSize = 5 << 20

// UploadedImage describes a stored image.
type UploadedImage struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
}

// FileStore keeps uploaded files under one directory.
// Images are public under /uploads; temp files are private to a request.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory served as /uploads.
func (s *FileStore) Dir() string { return s.dir }

// SaveImage stores an image after sniffing its content type from the bytes.
func (s *FileStore) SaveImage(originalName string, r io.Reader) (*UploadedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, apperrors.NewValidationError("image must not exceed 5MB")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, apperrors.NewValidationError(fmt.Sprintf("only image files are allowed, got %s", mtype.String()))
	}

	dir := filepath.Join(s.dir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	name := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}

	return &UploadedImage{
		URL:          "/uploads/images/" + name,
		Filename:     name,
		OriginalName: originalName,
		Size:         int64(len(data)),
	}, nil
}

// SaveTemp copies r into a new file under the temp directory. The caller must call
// the returned cleanup once done, on every path.
func (s *FileStore) SaveTemp(r io.Reader) (path string, cleanup func(), err error) {
	dir := filepath.Join(s.dir, "tmp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "import-*.csv")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup = func() { _ = os.Remove(f.Name()) }

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
