package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const UpdatesTopic = "storefront-updates"

// KafkaPublisher forwards update signals to other processes (other tabs served
// by other instances). Publishing failures are logged and dropped.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(log *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  UpdatesTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		// updates are published one at a time from inside a store mutation
		BatchTimeout:           10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Notify(ctx context.Context, ev Updated) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("failed to marshal update event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.Slot), // per-slot ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(uuid.NewString())},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("failed to publish update event", zap.String("slot", ev.Slot), zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
