package booking

import (
	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// AppointmentStore 是预约的持久化接口，由 repository.Repository 实现
type AppointmentStore interface {
	GetAppointmentByID(id int64) (*domain.Appointment, error)
	GetAppointmentsByOwnerID(ownerID string) ([]*domain.Appointment, error)
	GetAppointmentsByOwnerIDFrom(ownerID string, from civil.Date) ([]*domain.Appointment, error)
	GetAppointmentsByOwnerAndDate(ownerID string, date civil.Date) ([]*domain.Appointment, error)
	GetAppointmentsByClientID(clientID int64) ([]*domain.Appointment, error)

	// 以下两个方法必须在同一临界区内完成“读取当日预约 -> check -> 写入”，
	// check 返回错误时不能写入任何数据
	InsertAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error
	UpdateAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error

	DeleteAppointment(id int64) error
}

// WeekStore 是工作周及其日程的持久化接口
type WeekStore interface {
	CreateWorkWeek(ww *domain.WorkWeek) error
	GetWorkWeekIDByOwnerID(ownerID string) (int64, error)
	// CreateDailySchedules 要么七天全部写入，要么一天都不写入，成功后回填 ID
	CreateDailySchedules(workWeekID int64, days []domain.DailySchedule) error
	GetDailySchedulesByWorkWeekID(workWeekID int64) ([]domain.DailySchedule, error)
	// UpdateDailySchedules 成功后回填每一天的 WorkWeekID 和 Day
	UpdateDailySchedules(days []domain.DailySchedule) error
}

type ClientStore interface {
	GetClientByID(id int64) (*domain.Client, error)
}

// ScheduleCache 缓存周日程，实现可以为 nil
type ScheduleCache interface {
	GetWeeklySchedule(workWeekID int64) ([]domain.DailySchedule, bool, error)
	SetWeeklySchedule(workWeekID int64, days []domain.DailySchedule) error
	DeleteWeeklySchedule(workWeekID int64) error
}

// Notifier 将邮件消息投递到消息队列
type Notifier interface {
	Publish(msg domain.MailMessage) error
}
