package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat 不支持的图片格式
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result 缩放结果
type Result struct {
	Data    []byte
	Format  string
	Width   int
	Height  int
	Resized bool
}

// FitWithin 等比缩放到 maxSize×maxSize 以内；已满足时原样返回 Resized=false
func FitWithin(r io.Reader, maxSize int) (*Result, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return &Result{Format: format, Width: width, Height: height}, nil
	}

	newWidth, newHeight := fitDimensions(width, height, maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return &Result{Data: buf.Bytes(), Format: format, Width: newWidth, Height: newHeight, Resized: true}, nil
}

func fitDimensions(width, height, maxSize int) (int, int) {
	if width >= height {
		h := height * maxSize / width
		if h < 1 {
			h = 1
		}
		return maxSize, h
	}
	w := width * maxSize / height
	if w < 1 {
		w = 1
	}
	return w, maxSize
}

// ContentType 格式对应的 MIME 类型
func ContentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
