// Package service provides the publishing side of the activity feed.
// Errors are logged and returned to allow callers to ignore failures
// without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/queue"
)

var (
	// ErrBufferFull is returned when events arrive faster than the broker
	// takes them.  The event is dropped.
	ErrBufferFull = errors.New("activity buffer full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("activity publisher closed")
)

const (
	defaultBuffer      = 256
	defaultDialTimeout = 2 * time.Second
	defaultSendTimeout = 5 * time.Second
)

// Publisher delivers activity events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
	Close() error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue.  Publish only
// enqueues; a single worker goroutine owns the connection, opens it lazily
// and reopens it after it drops.
type AMQPPublisher struct {
	url         string
	queue       string
	logger      logrus.FieldLogger
	dialTimeout time.Duration
	sendTimeout time.Duration

	events    chan queue.ActivityEvent
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by run
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a started AMQPPublisher, or a NopPublisher when url
// is empty.
func NewPublisher(url, queueName string, logger logrus.FieldLogger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	p := newAMQPPublisher(url, queueName, logger, defaultBuffer, defaultDialTimeout)
	go p.run()
	return p
}

func newAMQPPublisher(url, queueName string, logger logrus.FieldLogger, buffer int, dialTimeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		queue:       queueName,
		logger:      logger,
		dialTimeout: dialTimeout,
		sendTimeout: defaultSendTimeout,
		events:      make(chan queue.ActivityEvent, buffer),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Publish hands ev to the worker without waiting for the broker.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.quit:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- ev:
		return nil
	default:
		p.logger.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type}).
			Warn("rabbitmq: buffer full, event dropped")
		return ErrBufferFull
	}
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.reset()
	for {
		select {
		case ev := <-p.events:
			_ = p.send(ev)
		case <-p.quit:
			// flush what is already queued; give up at the first failure
			for {
				select {
				case ev := <-p.events:
					if !p.send(ev) {
						p.logger.WithField("dropped", len(p.events)).Warn("rabbitmq: closing with unsent events")
						return
					}
				default:
					return
				}
			}
		}
	}
}

// send delivers one event as a persistent JSON message and reports whether
// the broker took it.
func (p *AMQPPublisher) send(ev queue.ActivityEvent) bool {
	log := p.logger.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type})

	body, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("rabbitmq: marshal event failed")
		return true
	}

	ch, err := p.channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel unavailable")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.sendTimeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		p.reset()
		return false
	}
	return true
}

// channel returns the open channel, dialing and declaring the queue when
// there is none.  The dial, TLS and AMQP handshake share dialTimeout.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(p.dialTimeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops accepting events, flushes the buffer and releases the broker
// connection.
func (p *AMQPPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
	return nil
}
