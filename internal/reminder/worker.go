package reminder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type AppointmentSource interface {
	GetAppointmentsOnDate(date civil.Date) ([]*domain.Appointment, error)
}

// Deduper 保证同一个预约只提醒一次，由 cache.Cache 实现
type Deduper interface {
	MarkReminderSent(appointmentID int64, ttl time.Duration) (bool, error)
	ClearReminder(appointmentID int64) error
}

type WorkerConfig struct {
	Interval time.Duration
	// 提前几天提醒，1 表示提醒明天的预约
	LeadDays int
	Location *time.Location
	Now      func() time.Time
}

// Worker 定期扫描即将到来的预约，为每个预约投递一封提醒邮件
type Worker struct {
	appointments AppointmentSource
	clients      booking.ClientStore
	deduper      Deduper
	notifier     booking.Notifier
	logger       *slog.Logger
	cfg          WorkerConfig
}

func NewWorker(appointments AppointmentSource, clients booking.ClientStore, deduper Deduper, notifier booking.Notifier, logger *slog.Logger, cfg WorkerConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.LeadDays < 0 {
		cfg.LeadDays = 0
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Worker{
		appointments: appointments,
		clients:      clients,
		deduper:      deduper,
		notifier:     notifier,
		logger:       logger,
		cfg:          cfg,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := w.RunOnce()
			if err != nil {
				w.logger.Error("预约提醒任务失败", "error", err)
				continue
			}
			if sent > 0 {
				w.logger.Info("已投递预约提醒", "count", sent)
			}
		}
	}
}

// RunOnce 处理目标日期的所有预约，返回本轮投递的提醒数量
func (w *Worker) RunOnce() (int, error) {
	target := civil.DateOf(w.cfg.Now().In(w.cfg.Location)).AddDays(w.cfg.LeadDays)

	appts, err := w.appointments.GetAppointmentsOnDate(target)
	if err != nil {
		return 0, err
	}

	// 标记保留到预约日期过去之后
	ttl := time.Duration(w.cfg.LeadDays+2) * 24 * time.Hour

	sent := 0
	for _, appt := range appts {
		first, err := w.deduper.MarkReminderSent(appt.ID, ttl)
		if err != nil {
			return sent, err
		}
		if !first {
			continue
		}

		delivered, err := w.send(appt)
		if err != nil {
			w.logger.Warn("投递预约提醒失败", "appointmentID", appt.ID, "error", err)
			if err := w.deduper.ClearReminder(appt.ID); err != nil {
				w.logger.Error("清除提醒标记失败", "appointmentID", appt.ID, "error", err)
			}
			continue
		}
		if delivered {
			sent++
		}
	}

	return sent, nil
}

// send 在客户没有邮箱时返回 false
func (w *Worker) send(appt *domain.Appointment) (bool, error) {
	client, err := w.clients.GetClientByID(appt.ClientID)
	if err != nil {
		return false, err
	}
	if client.Email == "" {
		return false, nil
	}

	if err := w.notifier.Publish(domain.NewAppointmentMail(domain.MailTypeAppointmentReminder, client, appt)); err != nil {
		return false, err
	}
	return true, nil
}
