package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tryon-shop/internal/config"

	"github.com/segmentio/kafka-go"
)

// OrderEvent 订单领域事件
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        uint      `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   string    `json:"total_amount"`
	TotalItems    int       `json:"total_items"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher 事件投递接口
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher 未启用事件投递时使用
type NopPublisher struct{}

// PublishOrderEvent 丢弃事件
func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

// Close 无需释放资源
func (NopPublisher) Close() error { return nil }

// KafkaPublisher 基于 kafka-go Writer 的事件投递
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewPublisher 按配置创建事件投递器，未启用时返回 NopPublisher
func NewPublisher(cfg config.EventsConfig) Publisher {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if !cfg.Enabled || len(brokers) == 0 {
		return NopPublisher{}
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = "orders"
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishOrderEvent 投递订单事件，以订单号作为分区 key 保证同一订单有序
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	msg, err := buildOrderMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write order event failed: %w", err)
	}
	return nil
}

// Close 刷新并关闭 writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func buildOrderMessage(event OrderEvent) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: marshal order event failed: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}
