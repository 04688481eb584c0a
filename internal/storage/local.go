package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps blobs on the local filesystem for development. "Presigned"
// URLs point back at this API's /files/ routes, which accept the direct PUT
// and serve the GET the same way a bucket would.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.baseURL + "/files/" + key, nil
}

func (s *LocalStore) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.baseURL + "/files/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Save writes an uploaded blob; used by the /files/ PUT handler.
func (s *LocalStore) Save(key string, r io.Reader) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

// Open returns a reader for a stored blob; used by the /files/ GET handler.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// resolve keeps keys inside the upload dir.
func (s *LocalStore) resolve(key string) (string, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return abs, nil
}
