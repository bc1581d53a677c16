package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedExtension = errors.New("only .png, .jpg and .jpeg images are allowed")
	ErrImageNotFound        = errors.New("image not found")
)

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Kind selects the sub-directory an image lives in.
type Kind string

const (
	KindUser     Kind = "users"
	KindProduct  Kind = "products"
	KindCategory Kind = "categories"
)

type ImageStore struct {
	Root string
}

// Save writes r under a generated name keeping the original extension.
func (s *ImageStore) Save(kind Kind, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExt[ext]; !ok {
		return "", ErrUnsupportedExtension
	}

	dir := filepath.Join(s.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return name, nil
}

// Open returns the stored file and its content type. The caller closes it.
func (s *ImageStore) Open(kind Kind, name string) (*os.File, string, error) {
	path, err := s.path(kind, name)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrImageNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return f, allowedExt[strings.ToLower(filepath.Ext(name))], nil
}

// Remove deletes a stored image. A missing file is not an error.
func (s *ImageStore) Remove(kind Kind, name string) error {
	if name == "" {
		return nil
	}
	path, err := s.path(kind, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *ImageStore) path(kind Kind, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrImageNotFound
	}
	if _, ok := allowedExt[strings.ToLower(filepath.Ext(name))]; !ok {
		return "", ErrImageNotFound
	}
	return filepath.Join(s.Root, string(kind), name), nil
}
