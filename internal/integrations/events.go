package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Event types published by the API.
const (
	EventUserRegistered = "user.registered"
	EventMenuCreated    = "menu.created"
	EventMenuUpdated    = "menu.updated"
)

// EventsExchange is the topic exchange events are published to.
const EventsExchange = "taist_events"

// Event is a domain event. Type doubles as the routing key.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType string, payload any) Event {
	return Event{ID: uuid.NewString(), Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher sends domain events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RabbitPublisher publishes persistent JSON messages to EventsExchange.
type RabbitPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

// NewRabbitPublisher dials url and declares the exchange.
func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	if url == "" {
		return nil, ErrDisabled
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitPublisher{conn: conn}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, EventsExchange, e.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.conn.Close()
}

// LogPublisher logs events instead of publishing them.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	log.WithFields(logrus.Fields{"event_id": e.ID, "type": e.Type}).Info("Event")
	return nil
}

// RecordingPublisher keeps events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingPublisher) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns what was published so far.
func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
