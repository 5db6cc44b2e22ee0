package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidImage rejects uploads that are not images or are too large.
var ErrInvalidImage error = &ValidationError{Field: FieldImage}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ImageStore 故事配图保存在本地目录，文件名随机
type ImageStore struct {
	dir      string
	maxBytes int64
}

func NewImageStore(dir string, maxMB int64) *ImageStore {
	return &ImageStore{dir: dir, maxBytes: maxMB * 1024 * 1024}
}

// Dir is where saved images live.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes the upload under a random name and returns that name.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !strings.HasPrefix(contentType, "image/") || !imageExts[ext] {
		return "", ErrInvalidImage
	}
	if header.Size > s.maxBytes {
		return "", ErrInvalidImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	// 多读一个字节用于检测超限
	n, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if n > s.maxBytes {
		_ = os.Remove(path)
		return "", ErrInvalidImage
	}

	logrus.WithFields(logrus.Fields{"name": name, "bytes": n}).Info("Image saved")
	return name, nil
}

// Path resolves a stored image name, rejecting anything that is not a
// plain file name.
func (s *ImageStore) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// Remove deletes a stored image. Unknown names are ignored.
func (s *ImageStore) Remove(name string) {
	path, ok := s.Path(name)
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).WithField("name", name).Warn("Remove image failed")
	}
}
