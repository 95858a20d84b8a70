package mailqueue

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type recordingChannel struct {
	key  string
	msgs []amqp.Publishing
}

func (c *recordingChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.key = key
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestPublish(t *testing.T) {
	cfg := &config.Config{}
	cfg.RabbitMQ.MailQueue = "email_queue"
	cfg.RabbitMQ.PublishTimeout = 1

	ch := &recordingChannel{}
	p := NewPublisher(cfg, ch)

	msg := domain.MailMessage{
		Type: domain.MailTypeAppointmentBooked,
		To:   "wangwei@example.com",
		Data: domain.AppointmentMailData{ClientName: "王伟", AppointmentID: 3, Date: "2024-03-01", StartTime: "09:00", EndTime: "10:00"},
	}
	require.NoError(t, p.Publish(msg))

	assert.Equal(t, "email_queue", ch.key)
	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "application/json", ch.msgs[0].ContentType)

	var decoded struct {
		Type string                     `json:"type"`
		To   string                     `json:"to"`
		Data domain.AppointmentMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &decoded))
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.To, decoded.To)
	assert.Equal(t, msg.Data, decoded.Data)
}

func TestTemplateFor(t *testing.T) {
	for _, mailType := range []string{
		domain.MailTypeAppointmentBooked,
		domain.MailTypeAppointmentRescheduled,
		domain.MailTypeAppointmentCancelled,
		domain.MailTypeAppointmentReminder,
	} {
		tmpl, ok := TemplateFor(mailType)
		assert.True(t, ok, mailType)
		assert.NotEmpty(t, tmpl.File)
		assert.NotEmpty(t, tmpl.Subject)
	}

	_, ok := TemplateFor("create_user")
	assert.False(t, ok)
}
