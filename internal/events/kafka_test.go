package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func setupKafka(t *testing.T) (string, func()) {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestKafkaPublisher_Notify(t *testing.T) {
	broker, cleanup := setupKafka(t)
	defer cleanup()
	createTopic(t, broker, UpdatesTopic)

	pub := NewKafkaPublisher(zaptest.NewLogger(t), broker)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pub.Notify(ctx, Updated{Type: CartUpdated, Slot: "ecommerce-cart:1", ItemCount: 2, At: time.Now()})

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: []string{broker},
		Topic:   UpdatesTopic,
	})
	defer reader.Close()

	m, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ecommerce-cart:1", string(m.Key))

	var ev Updated
	require.NoError(t, json.Unmarshal(m.Value, &ev))
	assert.Equal(t, CartUpdated, ev.Type)
	assert.Equal(t, 2, ev.ItemCount)
}

func TestCheckoutConsumer_Run(t *testing.T) {
	broker, cleanup := setupKafka(t)
	defer cleanup()
	createTopic(t, broker, CheckoutTopic)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clearer := &mockClearer{}
	// Run outlives the test body briefly, so it must not log through t
	consumer := NewCheckoutConsumer(clearer, zap.NewNop(), broker)
	defer consumer.Close()
	go consumer.Run(ctx)

	writer := &kafkaGo.Writer{
		Addr:  kafkaGo.TCP(broker),
		Topic: CheckoutTopic,
	}
	defer writer.Close()

	payload, _ := json.Marshal(CheckoutCompleted{SessionID: "42", Flow: FlowHomeTrial})
	require.NoError(t, writer.WriteMessages(ctx, kafkaGo.Message{Value: payload}))

	require.Eventually(t, func() bool {
		_, trials, _ := clearer.snapshot()
		return len(trials) == 1 && trials[0] == "42"
	}, 30*time.Second, 100*time.Millisecond, "trial was not cleared")
}
