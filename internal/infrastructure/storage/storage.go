// Package storage keeps uploaded objects in buckets on a filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectExists   = errors.New("object already exists")
	ErrInvalidPath    = errors.New("invalid object path")
	ErrTooLarge       = errors.New("object exceeds the upload limit")
)

var bucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// Object is a stored file.
type Object struct {
	Bucket      string
	Path        string
	Size        int64
	ContentType string
}

// LocalStorage stores bucket/path objects under a root directory.
type LocalStorage struct {
	fs      afero.Fs
	maxSize int64
	logger  logger.Interface
}

// NewLocalStorage roots the store at dir, creating it when missing.
func NewLocalStorage(dir string, maxSize int64, log logger.Interface) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewStorage(afero.NewBasePathFs(afero.NewOsFs(), dir), maxSize, log), nil
}

// NewStorage uses fs as the root, e.g. afero.NewMemMapFs() in tests.
func NewStorage(fs afero.Fs, maxSize int64, log logger.Interface) *LocalStorage {
	return &LocalStorage{fs: fs, maxSize: maxSize, logger: log.Named("storage")}
}

func (s *LocalStorage) key(bucket, objectPath string) (string, error) {
	if !bucketName.MatchString(bucket) {
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidPath, bucket)
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return filepath.Join(bucket, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Put writes r to bucket/objectPath. Without upsert an existing object is
// left untouched and ErrObjectExists is returned.
func (s *LocalStorage) Put(_ context.Context, bucket, objectPath string, r io.Reader, upsert bool) (*Object, error) {
	key, err := s.key(bucket, objectPath)
	if err != nil {
		return nil, err
	}
	if !upsert {
		if exists, _ := afero.Exists(s.fs, key); exists {
			return nil, ErrObjectExists
		}
	}
	if err := s.fs.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp := key + ".upload"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = s.fs.Remove(tmp)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := s.fs.Rename(tmp, key); err != nil {
		_ = s.fs.Remove(tmp)
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	s.logger.Debugw("object stored", "bucket", bucket, "path", objectPath, "size", n)
	return &Object{Bucket: bucket, Path: objectPath, Size: n, ContentType: contentType(objectPath)}, nil
}

// Open returns the object's content; the caller closes it.
func (s *LocalStorage) Open(_ context.Context, bucket, objectPath string) (io.ReadCloser, *Object, error) {
	key, err := s.key(bucket, objectPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.fs.Open(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrObjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to open object: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrObjectNotFound
	}
	return f, &Object{Bucket: bucket, Path: objectPath, Size: info.Size(), ContentType: contentType(objectPath)}, nil
}

func (s *LocalStorage) Remove(_ context.Context, bucket, objectPath string) error {
	key, err := s.key(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(key); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

func contentType(objectPath string) string {
	if ct := mime.TypeByExtension(path.Ext(objectPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
