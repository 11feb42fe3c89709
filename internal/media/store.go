// Package media 视频与缩略图的二进制存储
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidhub/config"
)

// Upload 待存储的文件
type Upload struct {
	Folder      string // videos, thumbnails
	Filename    string
	ContentType string
	Body        io.Reader
	// DurationSeconds 由上传方声明的时长，存储层原样返回
	DurationSeconds float64
}

// Asset 存储后的引用
type Asset struct {
	URL             string
	DurationSeconds float64
}

// Store 媒体存储
type Store interface {
	Store(ctx context.Context, u Upload) (Asset, error)
	// Delete 删除不存在的对象不视为错误
	Delete(ctx context.Context, url string) error
}

// NewStore 按配置选择实现
func NewStore(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Driver {
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, cfg.BaseURL)
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", cfg.Driver)
	}
}

// objectKey 生成唯一对象名，保留原扩展名
func objectKey(u Upload) string {
	folder := strings.Trim(u.Folder, "/")
	if folder == "" {
		folder = "misc"
	}
	return path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(u.Filename)))
}

// keyFromURL 去掉 baseURL 前缀得到对象名
func keyFromURL(baseURL, url string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

func joinURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}
