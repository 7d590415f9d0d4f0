package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

// AMQPQueue carries notification messages through a durable RabbitMQ queue.
type AMQPQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	name     string
	prefetch int
}

func NewAMQPQueue(url, name string, prefetch int) (*AMQPQueue, error) {
	conn, err := dialWithRetry(url, 5)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &AMQPQueue{conn: conn, channel: ch, name: name, prefetch: prefetch}, nil
}

func dialWithRetry(url string, attempts int) (*amqp.Connection, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var conn *amqp.Connection
		if conn, err = amqp.Dial(url); err == nil {
			return conn, nil
		}
		if i < attempts-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			utils.ErrorLogger.Printf("Failed to connect to RabbitMQ, retrying in %v: %v", wait, err)
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("connect to RabbitMQ after %d attempts: %w", attempts, err)
}

func (q *AMQPQueue) Publish(ctx context.Context, msg NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return q.channel.PublishWithContext(ctx,
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (q *AMQPQueue) Consume(ctx context.Context, handler MessageHandler) error {
	deliveries, err := q.channel.Consume(
		q.name, // queue
		"",     // consumer tag, generated
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var msg NotificationMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				utils.ErrorLogger.Printf("Dropping malformed notification %s: %v", d.MessageId, err)
				_ = d.Nack(false, false)
				continue
			}
			// retries are scheduled by the dispatcher, so the delivery is
			// always acknowledged once handled
			handler(ctx, msg)
			if err := d.Ack(false); err != nil {
				utils.ErrorLogger.Printf("Failed to ack notification %s: %v", msg.ID, err)
			}
		}
	}
}

func (q *AMQPQueue) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
