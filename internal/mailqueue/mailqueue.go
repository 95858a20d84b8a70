package mailqueue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// Channel 是 *amqp.Channel 中发布消息需要用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// DeclareQueue 声明持久化的邮件队列，api 和 mail worker 启动时都会调用
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // 队列名称
		true,  // 是否持久化
		false, // 是否自动删除
		false, // 是否独占
		false, // 是否不等待
		nil,   // 额外参数
	)
}

type Publisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(cfg *config.Config, ch Channel) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   cfg.RabbitMQ.MailQueue,
		timeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
	}
}

func (p *Publisher) Publish(msg domain.MailMessage) error {
	// 对邮件进行序列化
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

type Template struct {
	File    string
	Subject string
}

var templates = map[string]Template{
	domain.MailTypeAppointmentBooked:      {File: "appointment_booked_email.html", Subject: "预约成功"},
	domain.MailTypeAppointmentRescheduled: {File: "appointment_rescheduled_email.html", Subject: "预约时间已变更"},
	domain.MailTypeAppointmentCancelled:   {File: "appointment_cancelled_email.html", Subject: "预约已取消"},
	domain.MailTypeAppointmentReminder:    {File: "appointment_reminder_email.html", Subject: "预约提醒"},
}

// TemplateFor 返回邮件类型对应的模板文件名和主题
func TemplateFor(mailType string) (Template, bool) {
	t, ok := templates[mailType]
	return t, ok
}
