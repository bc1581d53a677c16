package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Types(t *testing.T) {
	t.Parallel()

	var r Recorder
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, TopicOrders, "o1", NewEvent("order_created", "o1", nil)))
	require.NoError(t, r.Publish(ctx, TopicUsers, "u1", NewEvent("user_created", "u1", nil)))
	require.NoError(t, r.Publish(ctx, TopicOrders, "o1", NewEvent("order_deleted", "o1", nil)))

	assert.Equal(t, []string{"order_created", "order_deleted"}, r.Types(TopicOrders))
	assert.Len(t, r.Events(), 3)
}

func TestNop(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Nop{}.Publish(context.Background(), TopicUsers, "k", "v"))
}

func TestProducer_PublishIntegration(t *testing.T) {
	broker := os.Getenv("KAFKA_TEST_BROKER")
	if broker == "" {
		t.Skip("KAFKA_TEST_BROKER is not set")
	}

	p := NewProducer([]string{broker})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	require.NoError(t, p.Publish(ctx, TopicOrders, "order-1", NewEvent("order_created", "order-1", map[string]int{"amount": 300})))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       TopicOrders,
		StartOffset: kafka.FirstOffset,
		GroupID:     "events-test",
	})
	defer r.Close()

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.Value)
}
