// Package queue provides the asynchronous task queue used for outbound
// notifications. Delivery is at-least-once; consumers are expected to be
// idempotent.
package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes task payloads to a queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

// RabbitMQPublisher publishes to a durable RabbitMQ queue.
type RabbitMQPublisher struct {
	conn  *amqp.Connection
	chn   *amqp.Channel
	queue string
}

// NewRabbitMQPublisher dials the broker and declares the queue.
func NewRabbitMQPublisher(url, queue string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := chn.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		chn.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	return &RabbitMQPublisher{
		conn:  conn,
		chn:   chn,
		queue: queue,
	}, nil
}

// Publish sends one persistent JSON message to the queue.
func (p *RabbitMQPublisher) Publish(ctx context.Context, body []byte) error {
	return p.chn.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.chn.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
