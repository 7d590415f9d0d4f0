package services

import (
	"context"
	"errors"
	"sync"

	"github.com/wasabi52ngg/restaurant-chain/models"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// NotificationMessage is the unit of work handed from a status transition to
// the dispatcher workers. Attempt counts retries already made.
type NotificationMessage struct {
	ID            string                    `json:"id"`
	ReservationID uint                      `json:"reservation_id"`
	Action        models.NotificationAction `json:"action"`
	Attempt       int                       `json:"attempt"`
}

type MessageHandler func(ctx context.Context, msg NotificationMessage)

type NotificationQueue interface {
	Publish(ctx context.Context, msg NotificationMessage) error
	// Consume blocks, feeding messages to handler until ctx is done or the
	// queue is closed.
	Consume(ctx context.Context, handler MessageHandler) error
	Close() error
}

// ChannelQueue is an in-process queue backed by a buffered channel.
type ChannelQueue struct {
	messages chan NotificationMessage
	closed   chan struct{}
	once     sync.Once
}

func NewChannelQueue(buffer int) *ChannelQueue {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelQueue{
		messages: make(chan NotificationMessage, buffer),
		closed:   make(chan struct{}),
	}
}

func (q *ChannelQueue) Publish(ctx context.Context, msg NotificationMessage) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.closed:
			return nil
		case msg := <-q.messages:
			handler(ctx, msg)
		}
	}
}

func (q *ChannelQueue) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}

// Len reports how many messages wait in the buffer.
func (q *ChannelQueue) Len() int {
	return len(q.messages)
}
