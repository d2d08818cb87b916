package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена обменника и очереди конвейера публикации постов.
const (
	PostsExchange = "posts"
	DueQueue      = "posts.due"
	DueRoutingKey = "due"
)

// SetupChannel открывает канал и объявляет обменник и очередь созревших
// публикаций. Безопасно вызывать из каждого сервиса конвейера.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		PostsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		DueQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind(DueQueue, DueRoutingKey, PostsExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}
