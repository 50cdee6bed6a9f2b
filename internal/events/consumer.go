package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const CheckoutTopic = "checkout-completed"

// Checkout flows that end in clearing state.
const (
	FlowCart      = "cart"
	FlowHomeTrial = "home_trial"
	FlowAll       = "all"
)

// CheckoutCompleted is published once a checkout or trial billing finished.
type CheckoutCompleted struct {
	SessionID string `json:"session_id"`
	Flow      string `json:"flow"`
}

// Clearer empties the collections a completed flow used up. Evict drops
// whatever the process still holds for the session in memory.
type Clearer interface {
	ClearCart(ctx context.Context, sessionID string)
	ClearTrial(ctx context.Context, sessionID string)
	Evict(sessionID string)
}

type CheckoutConsumer struct {
	reader  *kafka.Reader
	clearer Clearer
	log     *zap.Logger
}

func NewCheckoutConsumer(clearer Clearer, log *zap.Logger, brokers ...string) *CheckoutConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    CheckoutTopic,
		GroupID:  "storefront-state",
		MaxBytes: 10e6, // 10MB
	})
	return &CheckoutConsumer{reader: reader, clearer: clearer, log: log}
}

func (c *CheckoutConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return // reader closed
			}
			if !errors.Is(err, context.Canceled) {
				c.log.Warn("error reading message", zap.Error(err))
			}
			continue
		}
		if err := c.Handle(ctx, m.Value); err != nil {
			c.log.Warn("skipping checkout message", zap.Error(err))
		}
	}
}

// Handle applies one checkout-completed payload.
func (c *CheckoutConsumer) Handle(ctx context.Context, payload []byte) error {
	var ev CheckoutCompleted
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("error parsing message: %w", err)
	}
	if ev.SessionID == "" {
		return errors.New("missing session_id")
	}

	switch ev.Flow {
	case FlowCart:
		c.clearer.ClearCart(ctx, ev.SessionID)
		// the coupon only lives in memory and was spent with the cart
		c.clearer.Evict(ev.SessionID)
	case FlowHomeTrial:
		c.clearer.ClearTrial(ctx, ev.SessionID)
	case FlowAll, "":
		c.clearer.ClearCart(ctx, ev.SessionID)
		c.clearer.ClearTrial(ctx, ev.SessionID)
		c.clearer.Evict(ev.SessionID)
	default:
		return fmt.Errorf("unknown flow %q", ev.Flow)
	}
	c.log.Info("cleared state after checkout", zap.String("session", ev.SessionID), zap.String("flow", ev.Flow))
	return nil
}

func (c *CheckoutConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Warn("error closing reader", zap.Error(err))
	}
}
