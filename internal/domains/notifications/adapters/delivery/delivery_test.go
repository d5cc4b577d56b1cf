package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestRabbitMQSender_PublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	sender := NewRabbitMQSender(pub, "notifications.outbound")
	fixed := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	sender.now = func() time.Time { return fixed }

	err := sender.Send(context.Background(), domain.Message{To: "a@example.com", Subject: "Hi", Body: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "", pub.exchange)
	assert.Equal(t, "notifications.outbound", pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.msg.Body, &env))
	assert.Equal(t, "a@example.com", env.To)
	assert.Equal(t, "Hi", env.Subject)
	assert.Equal(t, fixed, env.QueuedAt)
	assert.Equal(t, pub.msg.MessageId, env.ID)
	assert.NotEmpty(t, env.ID)
}

func TestRabbitMQSender_WrapsPublishError(t *testing.T) {
	closed := errors.New("channel closed")
	sender := NewRabbitMQSender(&fakePublisher{err: closed}, "q")

	err := sender.Send(context.Background(), domain.Message{To: "a@example.com"})
	require.ErrorIs(t, err, closed)
}

func TestSMTPSender_BuildsMessage(t *testing.T) {
	sender, err := NewSMTPSender(SMTPConfig{Host: "mail.local", Port: "2525", Username: "shop@example.com", Password: "secret"})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), domain.Message{To: "b@example.com", Subject: "Order\r\nBcc: x", Body: "body"}))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"b@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Order  Bcc: x\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\nbody"))
}

func TestSMTPSender_ConfigValidation(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Port: "25", From: "a@example.com"})
	require.Error(t, err)
	_, err = NewSMTPSender(SMTPConfig{Host: "h", Port: "25"})
	require.Error(t, err)
}

func TestSMTPSender_WrapsRelayError(t *testing.T) {
	sender, err := NewSMTPSender(SMTPConfig{Host: "h", Port: "25", From: "a@example.com"})
	require.NoError(t, err)
	refused := errors.New("550 rejected")
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return refused }

	require.ErrorIs(t, sender.Send(context.Background(), domain.Message{To: "b@example.com"}), refused)
}

func TestLogSender_LogsWithoutBody(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), domain.Message{To: "a@example.com", Subject: "Hi", Body: "secret-token"}))
	assert.Contains(t, buf.String(), "a@example.com")
	assert.NotContains(t, buf.String(), "secret-token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sender.Send(ctx, domain.Message{To: "a@example.com"}), context.Canceled)
}
