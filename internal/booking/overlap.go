package booking

import (
	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/utils"
)

// Overlaps 判断半开区间 [s1, e1) 与 [s2, e2) 是否相交，端点相接不算相交
func Overlaps(s1, e1, s2, e2 domain.Clock) bool {
	return s1 < e2 && s2 < e1
}

// conflicting 返回与 [start, end) 相交的预约 ID，只比较同一商家同一天的预约
func conflicting(existing []*domain.Appointment, ownerID string, date civil.Date, start, end domain.Clock, excludeID int64) []int64 {
	ids := []int64{}
	for _, appt := range existing {
		if appt.OwnerID != ownerID || appt.Date != date || appt.ID == excludeID {
			continue
		}
		if Overlaps(appt.StartTime, appt.EndTime, start, end) {
			ids = append(ids, appt.ID)
		}
	}
	return ids
}

// CheckOverlap 判断商家在 date 当天的 [start, end) 是否与已有预约冲突
func (s *Service) CheckOverlap(ownerID string, date civil.Date, start, end domain.Clock) (bool, error) {
	return s.CheckOverlapExcept(ownerID, date, start, end, 0)
}

// CheckOverlapExcept 与 CheckOverlap 相同，但忽略 ID 为 excludeID 的预约（用于改约）
func (s *Service) CheckOverlapExcept(ownerID string, date civil.Date, start, end domain.Clock, excludeID int64) (bool, error) {
	if ownerID == "" {
		return false, domain.NewValidationError("ownerID", "不能为空")
	}
	if err := utils.ValidateAppointmentTime(date, start, end); err != nil {
		return false, err
	}

	existing, err := s.appointments.GetAppointmentsByOwnerAndDate(ownerID, date)
	if err != nil {
		return false, err
	}

	return len(conflicting(existing, ownerID, date, start, end, excludeID)) > 0, nil
}
