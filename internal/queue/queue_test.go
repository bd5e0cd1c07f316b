package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_PublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: TypeRegistered, Body: []byte("abc123")}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, TypeRegistered, msg.Type)
		assert.Equal(t, "abc123", string(msg.Body))
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: TypePaymentCompleted, Body: []byte("def456")}
	assert.Equal(t, msg, deserialize(serialize(msg)))

	// untyped payloads survive too
	assert.Equal(t, Message{Body: []byte("bare")}, deserialize("bare"))
}
