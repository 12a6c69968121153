package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"

	"github.com/rabbitmq/amqp091-go"
)

const channelAMQP = "amqp"

// AMQPPublisher публикует события в topic exchange; routing key = тип события
type AMQPPublisher struct {
	exchange string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{
		exchange: exchange,
		conn:     conn,
		channel:  ch,
	}, nil
}

func (p *AMQPPublisher) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		err = fmt.Errorf("amqp connection is closed")
	} else {
		err = p.channel.PublishWithContext(ctx,
			p.exchange,
			string(event.Type),
			false,
			false,
			amqp091.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp091.Persistent,
				Timestamp:    event.OccurredAt,
				Body:         body,
			},
		)
	}

	logger.EventLog(channelAMQP, string(event.Type), err)
	metrics.IncrementEventPublished(channelAMQP, err)
	return err
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
