package utils

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// 开始时间取值 [00:00, 24:00)，结束时间可以是 24:00
func validateStart(field string, c domain.Clock) error {
	if c < 0 || c >= domain.MinutesPerDay {
		return domain.NewValidationError(field, "时间 %d 超出一天的范围", int(c))
	}
	return nil
}

func validateEnd(field string, c domain.Clock) error {
	if c < 0 || c > domain.MinutesPerDay {
		return domain.NewValidationError(field, "时间 %d 超出一天的范围", int(c))
	}
	return nil
}

// ValidateAppointmentTime 检查预约的日期和时间段，结束时间必须严格晚于开始时间
func ValidateAppointmentTime(date civil.Date, start, end domain.Clock) error {
	if !date.IsValid() {
		return domain.NewValidationError("date", "日期 %s 不合法", date)
	}
	if err := validateStart("startTime", start); err != nil {
		return err
	}
	if err := validateEnd("endTime", end); err != nil {
		return err
	}
	if end <= start {
		return domain.NewValidationError("endTime", "结束时间 %s 必须晚于开始时间 %s", end, start)
	}
	return nil
}

// ValidateDailySchedule 检查某一天的日程，非工作日不检查营业时间
func ValidateDailySchedule(day *domain.DailySchedule) error {
	if day.Day != "" && day.Day.Index() < 0 {
		return domain.NewValidationError("day", "未知的星期 %s", day.Day)
	}
	if err := validateStart("startTime", day.StartTime); err != nil {
		return err
	}
	if err := validateEnd("endTime", day.EndTime); err != nil {
		return err
	}
	if day.SlotDuration < 0 {
		return domain.NewValidationError("slotDuration", "时段长度不能为负数")
	}
	if !day.IsWorkDay {
		return nil
	}

	if day.EndTime <= day.StartTime {
		return domain.NewValidationError("endTime", "%s 的结束时间必须晚于开始时间", day.Day)
	}
	if day.SlotDuration == 0 {
		return domain.NewValidationError("slotDuration", "%s 是工作日，时段长度必须大于 0", day.Day)
	}
	if int(day.SlotDuration) > int(day.EndTime-day.StartTime) {
		return domain.NewValidationError("slotDuration", "%s 的时段长度超过了营业时长", day.Day)
	}
	return nil
}

// ValidateSevenDays 检查一周的日程：恰好七天，并且按周日到周六的顺序排列
func ValidateSevenDays(days []domain.DailySchedule) error {
	if len(days) != len(domain.DaysOfWeek) {
		return domain.NewValidationError("days", "一周必须恰好包含 7 天，实际为 %d 天", len(days))
	}

	for i := range days {
		if days[i].Day != domain.DaysOfWeek[i] {
			return domain.NewValidationError(fmt.Sprintf("days[%d]", i), "应当为 %s，实际为 %s", domain.DaysOfWeek[i], days[i].Day)
		}
		if err := ValidateDailySchedule(&days[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWithinWorkingHours 检查预约时间段是否落在当天的营业时间内
func ValidateWithinWorkingHours(day *domain.DailySchedule, start, end domain.Clock) error {
	if !day.IsWorkDay {
		return domain.NewValidationError("date", "%s 不是工作日", day.Day)
	}
	if start < day.StartTime || end > day.EndTime {
		return domain.NewValidationError("startTime", "预约时间 %s-%s 不在营业时间 %s-%s 内", start, end, day.StartTime, day.EndTime)
	}
	return nil
}
