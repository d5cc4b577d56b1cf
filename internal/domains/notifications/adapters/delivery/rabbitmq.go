package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	"github.com/Apurer/go-order-service/internal/domains/notifications/ports"
)

var _ ports.Sender = (*RabbitMQSender)(nil)

// Publisher is the slice of *amqp.Channel the sender needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Envelope is the JSON document published for an out-of-process mailer.
type Envelope struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	QueuedAt time.Time `json:"queuedAt"`
}

// RabbitMQSender publishes messages to a durable queue on the default exchange.
type RabbitMQSender struct {
	publisher Publisher
	queue     string
	now       func() time.Time
}

func NewRabbitMQSender(publisher Publisher, queue string) *RabbitMQSender {
	return &RabbitMQSender{publisher: publisher, queue: queue, now: time.Now}
}

func (s *RabbitMQSender) Send(ctx context.Context, msg domain.Message) error {
	envelope := Envelope{
		ID:       uuid.NewString(),
		To:       msg.To,
		Subject:  msg.Subject,
		Body:     msg.Body,
		QueuedAt: s.now().UTC(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal notification envelope: %w", err)
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := amqp.Table{}
	for k, v := range carrier {
		headers[k] = v
	}
	err = s.publisher.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.ID,
		Timestamp:    envelope.QueuedAt,
		Headers:      headers,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", s.queue, err)
	}
	return nil
}

// DialRabbitMQ connects to the broker, declares the durable queue and returns a sender
// plus a close function. Dialing is retried with exponential backoff until ctx ends or
// the attempts run out.
func DialRabbitMQ(ctx context.Context, url, queue string) (*RabbitMQSender, func() error, error) {
	var conn *amqp.Connection
	op := func() error {
		c, err := amqp.Dial(url)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return NewRabbitMQSender(ch, queue), closeFn, nil
}
