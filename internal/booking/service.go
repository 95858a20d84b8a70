package booking

import (
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type Options struct {
	// 用于计算“今天”，决定哪些预约属于即将到来的预约
	Location *time.Location
	// 为 true 时预约必须落在当天的营业时间内
	EnforceWorkingHours bool
	// 日程没有设置时段长度时使用的默认值，单位为分钟
	DefaultSlotDuration int
	// 为 nil 时使用 time.Now
	Now func() time.Time
}

type Service struct {
	appointments AppointmentStore
	clients      ClientStore
	composer     *Composer
	notifier     Notifier
	opts         Options
}

// NewService 创建预约服务，clients 和 notifier 为 nil 时不发送通知
func NewService(appointments AppointmentStore, clients ClientStore, composer *Composer, notifier Notifier, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultSlotDuration <= 0 {
		opts.DefaultSlotDuration = 30
	}

	return &Service{
		appointments: appointments,
		clients:      clients,
		composer:     composer,
		notifier:     notifier,
		opts:         opts,
	}
}

func (s *Service) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *Service) today() civil.Date {
	return civil.DateOf(s.now())
}

func (s *Service) notify(mailType string, appt *domain.Appointment) {
	if s.notifier == nil || s.clients == nil {
		return
	}

	client, err := s.clients.GetClientByID(appt.ClientID)
	if err != nil {
		slog.Warn("获取客户信息失败，跳过预约通知", "appointmentID", appt.ID, "clientID", appt.ClientID, "error", err)
		return
	}
	if client.Email == "" {
		return
	}

	msg := domain.NewAppointmentMail(mailType, client, appt)
	if err := s.notifier.Publish(msg); err != nil {
		slog.Error("发送预约通知失败", "type", mailType, "appointmentID", appt.ID, "error", err)
	}
}
