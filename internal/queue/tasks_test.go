package queue

import (
	"encoding/json"
	"testing"

	"github.com/tryon-shop/internal/config"
)

func TestNewImageResizeTaskPayload(t *testing.T) {
	task, err := NewImageResizeTask(ImageResizePayload{Key: "products/a.png", MaxSize: 800})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskImageResize {
		t.Fatalf("task type want %s got %s", TaskImageResize, task.Type())
	}
	var payload ImageResizePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.Key != "products/a.png" || payload.MaxSize != 800 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderStatusNotify(OrderStatusNotifyPayload{OrderID: 1, Status: "pending"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.EnqueueProductIndex(ProductIndexPayload{ProductID: 1}, 0); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("concurrency want 10 got %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("default queue weight want 1 got %d", cfg.Queues[DefaultQueue])
	}
}
