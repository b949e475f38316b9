package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func TestFitWithinScalesDownLandscape(t *testing.T) {
	result, err := FitWithin(bytes.NewReader(encodeTestPNG(t, 1600, 900)), 800)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if !result.Resized || result.Width != 800 || result.Height != 450 {
		t.Fatalf("unexpected result: resized=%v %dx%d", result.Resized, result.Width, result.Height)
	}
	decoded, format, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode output failed: %v", err)
	}
	if format != "png" || decoded.Bounds().Dx() != 800 {
		t.Fatalf("output want png width 800 got %s width %d", format, decoded.Bounds().Dx())
	}
}

func TestFitWithinScalesDownPortrait(t *testing.T) {
	result, err := FitWithin(bytes.NewReader(encodeTestPNG(t, 300, 600)), 300)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if result.Width != 150 || result.Height != 300 {
		t.Fatalf("want 150x300 got %dx%d", result.Width, result.Height)
	}
}

func TestFitWithinKeepsSmallImage(t *testing.T) {
	result, err := FitWithin(bytes.NewReader(encodeTestPNG(t, 200, 100)), 800)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if result.Resized || result.Data != nil {
		t.Fatalf("small image should not be re-encoded")
	}
}

func TestFitWithinRejectsGarbage(t *testing.T) {
	if _, err := FitWithin(bytes.NewReader([]byte("not an image")), 800); err == nil {
		t.Fatalf("garbage input should fail")
	}
}
