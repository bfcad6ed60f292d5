package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agency-backoffice-api/config"

	"github.com/google/uuid"
)

const MaxUploadSize = int64(10 * 1024 * 1024) // 10MB

var allowedUploadTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var (
	ErrFileTooLarge      = errors.New("file size exceeds 10MB limit")
	ErrFileTypeForbidden = errors.New("file type not allowed")
	ErrStoredFileMissing = errors.New("file not found")
)

// StoredFile describes an upload written to disk.
type StoredFile struct {
	Name       string
	StoredPath string
	MimeType   string
	SizeBytes  int64
}

// FileStorage keeps uploads on local disk under Root, grouped by year/month.
// Stored names are random; the original name is kept in the database.
type FileStorage struct {
	Root string
	now  func() time.Time
}

func NewFileStorage(root string) *FileStorage {
	if strings.TrimSpace(root) == "" {
		root = config.Current.UploadPath
	}
	if root == "" {
		root = "./uploads"
	}
	return &FileStorage{Root: root, now: time.Now}
}

func (s *FileStorage) Save(fh *multipart.FileHeader, folder string) (*StoredFile, error) {
	if fh == nil {
		return nil, errors.New("no file uploaded")
	}
	if fh.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedUploadTypes[ext] {
		return nil, ErrFileTypeForbidden
	}

	dir := filepath.Join(s.Root, folder, s.now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	fullPath := filepath.Join(dir, uuid.NewString()+ext)

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return nil, err
	}

	return &StoredFile{
		Name:       filepath.Base(fh.Filename),
		StoredPath: fullPath,
		MimeType:   fh.Header.Get("Content-Type"),
		SizeBytes:  written,
	}, nil
}

// Resolve checks that path is a file inside Root.
func (s *FileStorage) Resolve(path string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", ErrStoredFileMissing
	}
	if _, err := os.Stat(abs); err != nil {
		return "", ErrStoredFileMissing
	}
	return abs, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *FileStorage) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
