package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/storage"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// 上传场景
const (
	UploadSceneProduct  = "product"
	UploadSceneAvatar   = "avatar"
	UploadSceneCategory = "category"
	UploadSceneBrand    = "brand"
	UploadSceneCommon   = "common"
)

var allowedUploadScenes = map[string]struct{}{
	UploadSceneProduct:  {},
	UploadSceneAvatar:   {},
	UploadSceneCategory: {},
	UploadSceneBrand:    {},
	UploadSceneCommon:   {},
}

// UploadResult 上传结果
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// UploadService 图片上传服务，文件写入对象存储
type UploadService struct {
	cfg   config.UploadConfig
	store storage.Storage
}

// NewUploadService 创建上传服务，store 为空时上传返回 ErrStorageNotReady
func NewUploadService(cfg config.UploadConfig, store storage.Storage) *UploadService {
	return &UploadService{cfg: cfg, store: store}
}

// Storage 底层存储
func (s *UploadService) Storage() storage.Storage {
	if s == nil {
		return nil
	}
	return s.store
}

// SaveImage 校验并保存图片
func (s *UploadService) SaveImage(ctx context.Context, file *multipart.FileHeader, scene string) (*UploadResult, error) {
	if s == nil || s.store == nil {
		return nil, ErrStorageNotReady
	}
	if file == nil {
		return nil, ErrImageInvalid
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, ErrFileTypeNotAllow
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return s.saveImageReader(ctx, src, ext, scene)
}

func (s *UploadService) saveImageReader(ctx context.Context, src io.ReadSeeker, ext, scene string) (*UploadResult, error) {
	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, err
	}
	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrFileTypeNotAllow
	}
	if len(s.cfg.AllowedTypes) > 0 && !containsFold(s.cfg.AllowedTypes, contentType) {
		return nil, ErrFileTypeNotAllow
	}

	width, height, err := decodeImageDimensions(src, contentType)
	if err != nil {
		logger.Debugw("upload_image_decode_failed", "content_type", contentType, "error", err)
		return nil, ErrImageInvalid
	}
	if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
		return nil, ErrImageInvalid
	}
	if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
		return nil, ErrImageInvalid
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	now := time.Now()
	key := path.Join(normalizeUploadScene(scene), now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
	if err := s.store.Put(ctx, key, src, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &UploadResult{
		Key:         key,
		URL:         s.store.URL(key),
		ContentType: contentType,
		Width:       width,
		Height:      height,
	}, nil
}

// Delete 删除已保存的对象，用于回滚
func (s *UploadService) Delete(ctx context.Context, key string) error {
	if s == nil || s.store == nil || key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return UploadSceneCommon
	}
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return UploadSceneCommon
}

func containsFold(list []string, target string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), target) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("无法解析 WebP 图片: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析图片: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("无效的 WebP 文件头")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, fmt.Errorf("无效的 WebP chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		if chunkType == "VP8X" {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8X chunk 长度不足")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		}
		if chunkType == "VP8 " {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8 chunk 长度不足")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		}
		if chunkType == "VP8L" {
			if len(data) < 5 {
				return 0, 0, fmt.Errorf("VP8L chunk 长度不足")
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("VP8L 签名无效")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
