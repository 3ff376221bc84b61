package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchQueue_DeliversJobsPublishedBeforeSubscribe(t *testing.T) {
	queue := NewBatchQueue(watermill.NopLogger{})
	defer queue.Close()

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"batch_id":"abcd1234"}`))
	require.NoError(t, queue.Publish("batch.query", msg))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := queue.Subscribe(ctx, "batch.query")
	require.NoError(t, err)

	select {
	case got := <-messages:
		assert.Equal(t, msg.UUID, got.UUID)
		assert.JSONEq(t, `{"batch_id":"abcd1234"}`, string(got.Payload))
		got.Ack()
	case <-ctx.Done():
		t.Fatal("job published before subscribe was dropped")
	}
}
