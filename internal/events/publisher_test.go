package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/tryon-shop/internal/config"
)

func TestNewPublisherDisabledReturnsNop(t *testing.T) {
	publisher := NewPublisher(config.EventsConfig{Enabled: false, Brokers: []string{"127.0.0.1:9092"}})
	if _, ok := publisher.(NopPublisher); !ok {
		t.Fatalf("disabled config want NopPublisher got %T", publisher)
	}
	if err := publisher.PublishOrderEvent(context.Background(), OrderEvent{Type: "order.created"}); err != nil {
		t.Fatalf("nop publish should not fail: %v", err)
	}

	publisher = NewPublisher(config.EventsConfig{Enabled: true, Brokers: []string{" "}})
	if _, ok := publisher.(NopPublisher); !ok {
		t.Fatalf("blank brokers want NopPublisher got %T", publisher)
	}
}

func TestNewPublisherEnabledBuildsWriter(t *testing.T) {
	publisher := NewPublisher(config.EventsConfig{Enabled: true, Brokers: []string{"127.0.0.1:9092"}})
	kafkaPublisher, ok := publisher.(*KafkaPublisher)
	if !ok {
		t.Fatalf("enabled config want *KafkaPublisher got %T", publisher)
	}
	if kafkaPublisher.writer.Topic != "orders" {
		t.Fatalf("topic want orders got %s", kafkaPublisher.writer.Topic)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
}

func TestBuildOrderMessage(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg, err := buildOrderMessage(OrderEvent{
		Type:        "order.created",
		OrderID:     5,
		OrderNumber: "ORDABC123DEF4",
		TotalAmount: "286.00",
		OccurredAt:  at,
	})
	if err != nil {
		t.Fatalf("build message failed: %v", err)
	}
	if string(msg.Key) != "ORDABC123DEF4" {
		t.Fatalf("key want ORDABC123DEF4 got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "order.created" {
		t.Fatalf("unexpected headers: %+v", msg.Headers)
	}
	var decoded OrderEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value failed: %v", err)
	}
	if decoded.OrderID != 5 || decoded.TotalAmount != "286.00" || !decoded.OccurredAt.Equal(at) {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
}
