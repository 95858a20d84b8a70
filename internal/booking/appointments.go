package booking

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/utils"
)

func validateAppointment(appt *domain.Appointment) error {
	if appt.OwnerID == "" {
		return domain.NewValidationError("ownerID", "不能为空")
	}
	if appt.ClientID <= 0 {
		return domain.NewValidationError("clientID", "必须为正整数")
	}
	if appt.ServiceID <= 0 {
		return domain.NewValidationError("serviceID", "必须为正整数")
	}
	return utils.ValidateAppointmentTime(appt.Date, appt.StartTime, appt.EndTime)
}

func (s *Service) checkWorkingHours(appt *domain.Appointment) error {
	if !s.opts.EnforceWorkingHours || s.composer == nil {
		return nil
	}

	day, err := s.composer.DayOf(appt.OwnerID, appt.Date)
	if err != nil {
		var nfErr *domain.NotFoundError
		if errors.As(err, &nfErr) {
			return domain.NewValidationError("date", "商家还没有设置营业时间")
		}
		return err
	}
	return utils.ValidateWithinWorkingHours(day, appt.StartTime, appt.EndTime)
}

func overlapGuard(appt *domain.Appointment) func(sameDay []*domain.Appointment) error {
	return func(sameDay []*domain.Appointment) error {
		ids := conflicting(sameDay, appt.OwnerID, appt.Date, appt.StartTime, appt.EndTime, appt.ID)
		if len(ids) > 0 {
			return &domain.OverlapError{ConflictingIDs: ids}
		}
		return nil
	}
}

// CreateAppointment 创建预约，与同一商家同一天的已有预约冲突时返回 *domain.OverlapError
func (s *Service) CreateAppointment(appt *domain.Appointment) error {
	appt.ID = 0
	if err := validateAppointment(appt); err != nil {
		return err
	}
	if err := s.checkWorkingHours(appt); err != nil {
		return err
	}

	if err := s.appointments.InsertAppointmentExclusive(appt, overlapGuard(appt)); err != nil {
		return err
	}

	s.notify(domain.MailTypeAppointmentBooked, appt)
	return nil
}

func (s *Service) GetAppointment(id int64) (*domain.Appointment, error) {
	return s.appointments.GetAppointmentByID(id)
}

// UpdateAppointment 改约，只修改 patch 中给出的字段，修改后的时间段只与其他预约比较
func (s *Service) UpdateAppointment(id int64, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	current, err := s.appointments.GetAppointmentByID(id)
	if err != nil {
		return nil, err
	}

	updated := *current
	patch.Apply(&updated)
	if err := validateAppointment(&updated); err != nil {
		return nil, err
	}
	if err := s.checkWorkingHours(&updated); err != nil {
		return nil, err
	}

	if err := s.appointments.UpdateAppointmentExclusive(&updated, overlapGuard(&updated)); err != nil {
		return nil, err
	}

	if updated.Date != current.Date || updated.StartTime != current.StartTime || updated.EndTime != current.EndTime {
		s.notify(domain.MailTypeAppointmentRescheduled, &updated)
	}
	return &updated, nil
}

func (s *Service) DeleteAppointment(id int64) error {
	appt, err := s.appointments.GetAppointmentByID(id)
	if err != nil {
		return err
	}
	if err := s.appointments.DeleteAppointment(id); err != nil {
		return err
	}

	s.notify(domain.MailTypeAppointmentCancelled, appt)
	return nil
}

func (s *Service) ListAppointments(ownerID string) ([]*domain.Appointment, error) {
	return s.appointments.GetAppointmentsByOwnerID(ownerID)
}

// ListUpcomingAppointments 返回今天及以后的预约，“今天”按照配置的时区计算
func (s *Service) ListUpcomingAppointments(ownerID string) ([]*domain.Appointment, error) {
	return s.appointments.GetAppointmentsByOwnerIDFrom(ownerID, s.today())
}

func (s *Service) ListAppointmentsOnDate(ownerID string, date civil.Date) ([]*domain.Appointment, error) {
	if !date.IsValid() {
		return nil, domain.NewValidationError("date", "日期 %s 不合法", date)
	}
	return s.appointments.GetAppointmentsByOwnerAndDate(ownerID, date)
}

func (s *Service) ListClientAppointments(clientID int64) ([]*domain.Appointment, error) {
	return s.appointments.GetAppointmentsByClientID(clientID)
}
