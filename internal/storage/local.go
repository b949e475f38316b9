package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	dir       string
	publicURL string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(dir, publicURL string) *LocalStorage {
	if dir == "" {
		dir = "uploads"
	}
	return &LocalStorage{dir: dir, publicURL: publicURL}
}

// Dir 存储根目录
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) resolve(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(cleaned)), nil
}

// Put 写入文件（先写临时文件再重命名）
func (s *LocalStorage) Put(_ context.Context, key string, body io.ReadSeeker, _ string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, target)
}

// Open 读取文件
func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return file, err
}

// Delete 删除文件，不存在视为成功
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL 访问地址
func (s *LocalStorage) URL(key string) string {
	return joinURL(s.publicURL, key)
}
