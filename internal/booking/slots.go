package booking

import (
	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// FreeSlots 返回商家在 date 当天所有可预约时段的开始时间。
// 时段从营业开始时间起按日程的时段长度递增，duration 为 0 时使用时段长度作为预约时长。
// date 为今天时跳过已经开始的时段。
func (s *Service) FreeSlots(ownerID string, date civil.Date, duration int) ([]domain.Clock, error) {
	if !date.IsValid() {
		return nil, domain.NewValidationError("date", "日期 %s 不合法", date)
	}
	if duration < 0 || duration > domain.MinutesPerDay {
		return nil, domain.NewValidationError("duration", "预约时长必须在 0 到 %d 分钟之间", domain.MinutesPerDay)
	}
	if s.composer == nil {
		return nil, &domain.NotFoundError{Entity: "商家的营业时间", ID: ownerID}
	}

	day, err := s.composer.DayOf(ownerID, date)
	if err != nil {
		return nil, err
	}

	slots := []domain.Clock{}
	if !day.IsWorkDay {
		return slots, nil
	}

	step := int(day.SlotDuration)
	if step <= 0 {
		step = s.opts.DefaultSlotDuration
	}
	if duration == 0 {
		duration = step
	}

	booked, err := s.appointments.GetAppointmentsByOwnerAndDate(ownerID, date)
	if err != nil {
		return nil, err
	}

	earliest := domain.Clock(0)
	if date == s.today() {
		now := s.now()
		earliest = domain.Clock(now.Hour()*60 + now.Minute())
	}

	for start := day.StartTime; start.Add(duration) <= day.EndTime; start = start.Add(step) {
		if start < earliest {
			continue
		}
		if len(conflicting(booked, ownerID, date, start, start.Add(duration), 0)) == 0 {
			slots = append(slots, start)
		}
	}

	return slots, nil
}
