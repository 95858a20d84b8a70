package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var workWeekConstraints = map[string]string{
	"work_weeks_owner_id_key":  "该商家已经有工作周",
	"work_weeks_owner_id_fkey": "用户不存在",
}

type dailyScheduleRequest struct {
	Day          string `json:"day" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime    string `json:"startTime" validate:"required,clock"`
	EndTime      string `json:"endTime" validate:"required,clock"`
	IsWorkDay    bool   `json:"isWorkDay"`
	SlotDuration int32  `json:"slotDuration" validate:"gte=0,lte=1440"`
}

func (req *dailyScheduleRequest) toDomain() (domain.DailySchedule, error) {
	start, err := domain.ParseClock(req.StartTime)
	if err != nil {
		return domain.DailySchedule{}, err
	}
	end, err := domain.ParseClock(req.EndTime)
	if err != nil {
		return domain.DailySchedule{}, err
	}

	return domain.DailySchedule{
		Day:          domain.DayOfWeek(req.Day),
		StartTime:    start,
		EndTime:      end,
		IsWorkDay:    req.IsWorkDay,
		SlotDuration: req.SlotDuration,
	}, nil
}

func (h *Handler) CreateWorkWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"ownerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id, err := h.composer.CreateWeek(req.OwnerID)
	if err != nil {
		h.handleError(w, r, err, workWeekConstraints)
		return
	}

	h.successResponse(w, r, "创建工作周成功", map[string]int64{"id": id})
}

func (h *Handler) GetWorkWeekID(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerID")
	if ownerID == "" {
		h.badRequest(w, r, errors.New("缺少 ownerID 参数"))
		return
	}

	id, err := h.composer.WorkWeekID(ownerID)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "获取工作周成功", map[string]int64{"id": id})
}

func (h *Handler) CreateDailySchedules(w http.ResponseWriter, r *http.Request) {
	workWeekID := r.Context().Value(WorkWeekIDCtx).(int64)

	var req struct {
		Days []dailyScheduleRequest `json:"days" validate:"required,len=7,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days := make([]domain.DailySchedule, 0, len(req.Days))
	for i := range req.Days {
		day, err := req.Days[i].toDomain()
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		days = append(days, day)
	}

	ids, err := h.composer.CreateSevenDays(workWeekID, days)
	if err != nil {
		h.handleError(w, r, err, map[string]string{
			"daily_schedules_work_week_id_fkey":    "工作周不存在",
			"daily_schedules_work_week_id_day_key": "该工作周已经设置过日程",
		})
		return
	}

	h.successResponse(w, r, "创建周日程成功", ids)
}

func (h *Handler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	workWeekID := r.Context().Value(WorkWeekIDCtx).(int64)

	days, err := h.composer.ReadWeek(workWeekID)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "获取周日程成功", days)
}

func (h *Handler) UpdateDailySchedules(w http.ResponseWriter, r *http.Request) {
	workWeekID := r.Context().Value(WorkWeekIDCtx).(int64)

	var req struct {
		Days []struct {
			ID int64 `json:"id" validate:"required,gt=0"`
			dailyScheduleRequest
		} `json:"days" validate:"required,min=1,max=7,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只允许修改路径中这个工作周的日程
	week, err := h.composer.ReadWeek(workWeekID)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}
	belongs := make(map[int64]domain.DayOfWeek, len(week))
	for _, day := range week {
		belongs[day.ID] = day.Day
	}

	changes := make([]domain.DailySchedule, 0, len(req.Days))
	for i := range req.Days {
		dayName, ok := belongs[req.Days[i].ID]
		if !ok {
			h.badRequest(w, r, fmt.Errorf("日程 %d 不属于工作周 %d", req.Days[i].ID, workWeekID))
			return
		}

		change, err := req.Days[i].toDomain()
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		change.ID = req.Days[i].ID
		change.Day = dayName
		changes = append(changes, change)
	}

	updated, err := h.composer.UpdateDays(changes)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "更新日程成功", updated)
}
