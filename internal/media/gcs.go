package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore 写入 Google Cloud Storage 桶
type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCSStore credentialsFile 为空时使用默认凭据；baseURL 为空时使用公共访问地址
func NewGCSStore(ctx context.Context, bucket, credentialsFile, baseURL string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *GCSStore) Store(ctx context.Context, u Upload) (Asset, error) {
	key := objectKey(u)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = u.ContentType
	if w.ContentType == "" {
		w.ContentType = "application/octet-stream"
	}
	if _, err := io.Copy(w, u.Body); err != nil {
		_ = w.Close()
		return Asset{}, fmt.Errorf("failed to copy upload to gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}
	return Asset{URL: joinURL(s.baseURL, key), DurationSeconds: u.DurationSeconds}, nil
}

func (s *GCSStore) Delete(ctx context.Context, url string) error {
	key, ok := keyFromURL(s.baseURL, url)
	if !ok {
		return fmt.Errorf("url %q is not managed by this store", url)
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error { return s.client.Close() }
