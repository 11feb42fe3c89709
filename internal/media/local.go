package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore 写入本地目录，开发与测试使用
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Dir 返回根目录，供静态文件路由使用
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Store(ctx context.Context, u Upload) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	key := objectKey(u)
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Asset{}, fmt.Errorf("create media folder: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return Asset{}, fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, u.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return Asset{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return Asset{}, fmt.Errorf("close %s: %w", key, err)
	}
	return Asset{URL: joinURL(s.baseURL, key), DurationSeconds: u.DurationSeconds}, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, ok := keyFromURL(s.baseURL, url)
	if !ok {
		return fmt.Errorf("url %q is not managed by this store", url)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
