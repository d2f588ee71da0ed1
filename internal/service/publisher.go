// Package service publishes booking events.  Publish failures are logged
// and returned so callers can ignore them without interrupting the booking
// flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/queue"
)

// Publisher emits booking events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// AMQPPublisher publishes to the durable booking.events queue.  The
// connection is dialled lazily and redialled after a failure.
type AMQPPublisher struct {
	url    string
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, logger: logger}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(queue.BookingQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Publish marshals ev and publishes it as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("marshal booking event failed", zap.Error(err))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		p.logger.Warn("rabbitmq unavailable", zap.Error(err), zap.String("event", ev.Type))
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueue, false, false, msg); err != nil {
		p.reset()
		p.logger.Warn("rabbitmq publish failed", zap.Error(err), zap.String("event", ev.Type))
		return err
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// LogPublisher is used when the broker is disabled; it writes events to
// the application log instead.
type LogPublisher struct {
	Logger *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	if p.Logger == nil {
		return nil
	}
	p.Logger.Info("booking event",
		zap.String("type", ev.Type),
		zap.String("booking_id", ev.BookingID),
		zap.String("reference", ev.Reference),
		zap.String("visitor_id", ev.VisitorID),
		zap.Int64("amount", ev.Amount),
		zap.String("status", string(ev.Status)),
		zap.String("payment_status", string(ev.PaymentStatus)),
	)
	return nil
}

// ErrPublisherFull is returned when the async buffer has no room.
var ErrPublisherFull = errors.New("event buffer full")

// AsyncPublisher hands events to a single background worker so request
// handlers never wait on the broker.  Events are dropped, with a warning,
// when the buffer is full or the publisher is closed.
type AsyncPublisher struct {
	next    Publisher
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan queue.BookingEvent
	done   chan struct{}
}

// NewAsyncPublisher starts the worker.  Each publish attempt gets timeout
// to complete.
func NewAsyncPublisher(next Publisher, buffer int, timeout time.Duration, logger *zap.Logger) *AsyncPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer < 1 {
		buffer = 1
	}
	a := &AsyncPublisher{
		next:    next,
		logger:  logger,
		timeout: timeout,
		events:  make(chan queue.BookingEvent, buffer),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncPublisher) run() {
	defer close(a.done)
	for ev := range a.events {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, ev); err != nil {
			a.logger.Warn("booking event not delivered",
				zap.String("type", ev.Type), zap.String("booking_id", ev.BookingID), zap.Error(err))
		}
		cancel()
	}
}

// Publish enqueues ev without blocking.
func (a *AsyncPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrPublisherFull
	}
	select {
	case a.events <- ev:
		return nil
	default:
		a.logger.Warn("booking event dropped", zap.String("type", ev.Type), zap.String("booking_id", ev.BookingID))
		return ErrPublisherFull
	}
}

// Close stops accepting events and waits for the worker to drain.
func (a *AsyncPublisher) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.events)
	}
	a.mu.Unlock()
	<-a.done
}
