// Package rabbitmq содержит подключение к RabbitMQ и настройку
// обмена уведомлений о решениях по платежам.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	// Exchange — обмен уведомлений.
	Exchange = "notifications"
	// PaymentQueue — очередь сообщений о решениях по платежам.
	PaymentQueue = "notifications.payment"
	// PaymentRoutingKey — ключ маршрутизации решений по платежам.
	PaymentRoutingKey = "payment.decided"
)

// Connect устанавливает соединение с RabbitMQ, повторяя попытки при неудаче.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет обмен, очередь и привязку.
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
		Exchange,
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
		PaymentQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, PaymentQueue, err)
	}

	err = ch.QueueBind(PaymentQueue, PaymentRoutingKey, Exchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, PaymentQueue, err)
	}

	return ch, nil
}
