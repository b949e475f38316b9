package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tryon-shop/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func TestCleanKey(t *testing.T) {
	cases := map[string]string{
		"products/a.png":    "products/a.png",
		"/products//b.png":  "products/b.png",
		"products\\c.png":   "products/c.png",
		"../../etc/passwd":  "etc/passwd",
		"products/../d.png": "d.png",
	}
	for input, want := range cases {
		got, err := CleanKey(input)
		if err != nil {
			t.Fatalf("clean %q failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("clean %q want %q got %q", input, want, got)
		}
	}
	if _, err := CleanKey("  "); err == nil {
		t.Fatalf("empty key should fail")
	}
}

func TestLocalStorageRoundTrip(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "/uploads")
	ctx := context.Background()

	if err := store.Put(ctx, "products/2026/tee.png", bytes.NewReader([]byte("image-bytes")), "image/png"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	reader, err := store.Open(ctx, "products/2026/tee.png")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	data, _ := io.ReadAll(reader)
	_ = reader.Close()
	if string(data) != "image-bytes" {
		t.Fatalf("content want image-bytes got %s", data)
	}
	if url := store.URL("products/2026/tee.png"); url != "/uploads/products/2026/tee.png" {
		t.Fatalf("url want /uploads/products/2026/tee.png got %s", url)
	}
	if err := store.Delete(ctx, "products/2026/tee.png"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "products/2026/tee.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("want ErrObjectNotFound got %v", err)
	}
	if err := store.Delete(ctx, "products/2026/tee.png"); err != nil {
		t.Fatalf("deleting a missing file should succeed: %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
	store, err := New(config.StorageConfig{Driver: "", LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("default driver failed: %v", err)
	}
	if _, ok := store.(*LocalStorage); !ok {
		t.Fatalf("default driver want *LocalStorage got %T", store)
	}
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(input.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, input *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.StringValue(input.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, input *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.StringValue(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageUsesClient(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newS3StorageWithClient(fake, "tryon-media", "https://cdn.example.com/")
	ctx := context.Background()

	if err := store.Put(ctx, "/avatars/u1.jpg", strings.NewReader("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, ok := fake.objects["avatars/u1.jpg"]; !ok {
		t.Fatalf("object should be stored under cleaned key, got %v", fake.objects)
	}
	reader, err := store.Open(ctx, "avatars/u1.jpg")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_ = reader.Close()
	if err := store.Delete(ctx, "avatars/u1.jpg"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "avatars/u1.jpg"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("want ErrObjectNotFound got %v", err)
	}
	if url := store.URL("avatars/u1.jpg"); url != "https://cdn.example.com/avatars/u1.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
}
