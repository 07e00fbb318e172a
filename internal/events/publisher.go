package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Publisher emits order lifecycle events for downstream collaborators
// (notification e-mails, projections). Emission is best-effort: callers log
// failures and never fail the request over them.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
}

// OrderEvent is the JSON payload written to the order-events topic.
type OrderEvent struct {
	EventID    string             `json:"event_id"`
	EventType  string             `json:"event_type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Total      float64            `json:"total"`
	Status     domain.OrderStatus `json:"status"`
	PrevStatus domain.OrderStatus `json:"prev_status,omitempty"`
	Items      []domain.OrderItem `json:"items,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	event := OrderEvent{
		EventID:    uuid.New().String(),
		EventType:  EventOrderCreated,
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
		Items:      order.Items,
		OccurredAt: time.Now(),
	}
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	event := OrderEvent{
		EventID:    uuid.New().String(),
		EventType:  EventOrderStatusChanged,
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
		PrevStatus: from,
		OccurredAt: time.Now(),
	}
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *domain.Order) error {
	return nil
}

func (NopPublisher) PublishStatusChanged(context.Context, *domain.Order, domain.OrderStatus) error {
	return nil
}
