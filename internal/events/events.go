// Package events publishes order lifecycle notifications for downstream consumers.
// Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	TypeOrderPending       = "order.pending"
	TypeOrderCompleted     = "order.completed"
	TypeSubscriptionIssued = "subscription.issued"
)

type Event struct {
	Type      string    `json:"type"`
	OrderID   uint      `json:"order_id"`
	UserID    uint      `json:"user_id,omitempty"`
	Reference string    `json:"reference,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MessageSender is the part of sarama.SyncProducer the publisher needs.
type MessageSender interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

type KafkaPublisher struct {
	producer MessageSender
	topic    string
	logger   *zap.Logger
}

func NewKafkaPublisher(producer MessageSender, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(_ context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// keyed by order so one order's events stay on one partition
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("type", event.Type),
		zap.Uint("order_id", event.OrderID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("event",
		zap.String("type", event.Type),
		zap.Uint("order_id", event.OrderID),
		zap.String("reference", event.Reference),
	)
	return nil
}
