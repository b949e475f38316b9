package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tryon-shop/internal/config"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("storage object not found")

// Storage 对象存储接口，key 使用 / 分隔的相对路径
type Storage interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New 按配置创建存储实现
func New(cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicURL), nil
	case "s3":
		return NewS3Storage(cfg.S3, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// CleanKey 规范化 key，拒绝越级路径
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", errors.New("storage key is empty")
	}
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
