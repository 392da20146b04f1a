// Package service holds outbound integrations used by the booking engine.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/rangbhumi-booking/internal/logger"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/queue"
)

// Publishing runs on the booking request path, so every broker wait is
// bounded.  amqp.Dial alone would wait up to 30s for a silent host.
var (
	dialTimeout   = 2 * time.Second
	publishWait   = 5 * time.Second
	redialBackoff = 10 * time.Second
)

// Publisher sends booking.confirmed events to RabbitMQ.  The connection is
// opened on first use and re-dialled after the broker drops it.  After a
// failed dial, events fail fast until redialBackoff has passed.  Publish
// errors are returned to the caller, who is expected to log and move on.
type Publisher struct {
	url  string
	dial func(url string) (*amqp.Connection, error)
	now  func() time.Time

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	retryAfter time.Time
}

// NewPublisher returns a publisher for the broker at url.  No connection
// is made until the first event.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, dial: dialBroker, now: time.Now}
}

func dialBroker(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
}

// BookingConfirmed publishes the event for b as a persistent message.
func (p *Publisher) BookingConfirmed(ctx context.Context, b model.Booking) error {
	body, err := json.Marshal(queue.NewBookingConfirmedEvent(b))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, body)
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishWait)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",                          // default exchange
		queue.BookingConfirmedQueue, // routing key = queue name
		false,                       // mandatory
		false,                       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// ErrBrokerUnavailable is returned while the publisher waits out a failed dial.
var ErrBrokerUnavailable = errors.New("broker unavailable")

func (p *Publisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()
	if p.url == "" {
		return nil, errors.New("rabbitmq url not configured")
	}
	if now := p.now(); now.Before(p.retryAfter) {
		return nil, fmt.Errorf("%w: retry in %s", ErrBrokerUnavailable, p.retryAfter.Sub(now).Round(time.Second))
	}
	conn, err := p.dial(p.url)
	if err != nil {
		p.retryAfter = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	p.retryAfter = time.Time{}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue.BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	p.conn, p.ch = conn, ch
	logger.Get().Info("connected to broker", "queue", queue.BookingConfirmedQueue)
	return ch, nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
