package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

func TestPublishMessage(t *testing.T) {
	ctx := context.Background()

	amqpURI, cleanup := setupAmqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn)
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	t.Run("success publish and consume", func(t *testing.T) {
		msg := models.PostDueInfo{
			PostID:        42,
			PrincipalUID:  "uid-1",
			Email:         "author@example.com",
			Username:      "testuser",
			Content:       "post text",
			LinkedInURN:   "abc123",
			LinkedInToken: "access-token",
		}

		// Публикуем сообщение в обменник конвейера
		err = PublishMessage(ch, PostsExchange, DueRoutingKey, msg)
		require.NoError(t, err)

		// Читаем из очереди созревших публикаций
		deliveries, err := ch.Consume(DueQueue, "test-consumer", true, false, false, false, nil)
		require.NoError(t, err)

		select {
		case d := <-deliveries:
			var got models.PostDueInfo
			err := json.Unmarshal(d.Body, &got)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
			assert.Equal(t, "application/json", d.ContentType)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		// В json marshal нельзя сериализовать канал
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{
			Ch: make(chan int),
		}

		err := PublishMessage(ch, PostsExchange, DueRoutingKey, badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})
}
