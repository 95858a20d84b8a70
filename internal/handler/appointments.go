package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var appointmentConstraints = map[string]string{
	"appointments_client_id_fkey":  "客户不存在",
	"appointments_service_id_fkey": "服务不存在",
	"appointments_owner_id_fkey":   "用户不存在",
}

// checkOwnership 确认客户和服务都属于同一个商家
func (h *Handler) checkOwnership(ownerID string, clientID, serviceID int64) error {
	client, err := h.repository.GetClientByID(clientID)
	if err != nil {
		return err
	}
	if client.OwnerID != ownerID {
		return domain.NewValidationError("clientID", "客户 %d 不属于该商家", clientID)
	}

	service, err := h.repository.GetServiceByID(serviceID)
	if err != nil {
		return err
	}
	if service.OwnerID != ownerID {
		return domain.NewValidationError("serviceID", "服务 %d 不属于该商家", serviceID)
	}
	return nil
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID   string `json:"ownerID" validate:"required"`
		ClientID  int64  `json:"clientID" validate:"required,gt=0"`
		ServiceID int64  `json:"serviceID" validate:"required,gt=0"`
		Date      string `json:"date" validate:"required,date"`
		StartTime string `json:"startTime" validate:"required,clock"`
		EndTime   string `json:"endTime" validate:"required,clock"`
		Note      string `json:"note" validate:"max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := civil.ParseDate(req.Date)
	start, _ := domain.ParseClock(req.StartTime)
	end, _ := domain.ParseClock(req.EndTime)

	if err := h.checkOwnership(req.OwnerID, req.ClientID, req.ServiceID); err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	appt := &domain.Appointment{
		OwnerID:   req.OwnerID,
		ClientID:  req.ClientID,
		ServiceID: req.ServiceID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Note:      req.Note,
	}
	if err := h.booking.CreateAppointment(appt); err != nil {
		h.handleError(w, r, err, appointmentConstraints)
		return
	}

	h.successResponse(w, r, "预约成功", appt)
}

// GetAppointments 按 ownerID 查询预约，可以用 date 或 upcoming=true 进一步筛选
func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ownerID := query.Get("ownerID")
	if ownerID == "" {
		h.badRequest(w, r, errors.New("缺少 ownerID 参数"))
		return
	}

	var (
		appts []*domain.Appointment
		err   error
	)
	switch {
	case query.Get("date") != "":
		date, parseErr := civil.ParseDate(query.Get("date"))
		if parseErr != nil {
			h.badRequest(w, r, errors.New("date 必须是 YYYY-MM-DD 格式的日期"))
			return
		}
		appts, err = h.booking.ListAppointmentsOnDate(ownerID, date)
	case query.Get("upcoming") != "":
		upcoming, parseErr := strconv.ParseBool(query.Get("upcoming"))
		if parseErr != nil {
			h.badRequest(w, r, errors.New("upcoming 必须是布尔值"))
			return
		}
		if upcoming {
			appts, err = h.booking.ListUpcomingAppointments(ownerID)
		} else {
			appts, err = h.booking.ListAppointments(ownerID)
		}
	default:
		appts, err = h.booking.ListAppointments(ownerID)
	}
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "获取预约列表成功", appts)
}

func (h *Handler) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID       string `json:"ownerID" validate:"required"`
		Date          string `json:"date" validate:"required,date"`
		StartTime     string `json:"startTime" validate:"required,clock"`
		EndTime       string `json:"endTime" validate:"required,clock"`
		AppointmentID int64  `json:"appointmentID" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := civil.ParseDate(req.Date)
	start, _ := domain.ParseClock(req.StartTime)
	end, _ := domain.ParseClock(req.EndTime)

	overlap, err := h.booking.CheckOverlapExcept(req.OwnerID, date, start, end, req.AppointmentID)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "检查完成", map[string]bool{"overlap": overlap})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)
	h.successResponse(w, r, "获取预约成功", appt)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)

	var req struct {
		Date      *string `json:"date" validate:"omitempty,date"`
		StartTime *string `json:"startTime" validate:"omitempty,clock"`
		EndTime   *string `json:"endTime" validate:"omitempty,clock"`
		ServiceID *int64  `json:"serviceID" validate:"omitempty,gt=0"`
		Note      *string `json:"note" validate:"omitempty,max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := domain.AppointmentPatch{
		ServiceID: req.ServiceID,
		Note:      req.Note,
	}
	if req.Date != nil {
		date, _ := civil.ParseDate(*req.Date)
		patch.Date = &date
	}
	if req.StartTime != nil {
		start, _ := domain.ParseClock(*req.StartTime)
		patch.StartTime = &start
	}
	if req.EndTime != nil {
		end, _ := domain.ParseClock(*req.EndTime)
		patch.EndTime = &end
	}

	if req.ServiceID != nil {
		if err := h.checkOwnership(appt.OwnerID, appt.ClientID, *req.ServiceID); err != nil {
			h.handleError(w, r, err, nil)
			return
		}
	}

	updated, err := h.booking.UpdateAppointment(appt.ID, patch)
	if err != nil {
		h.handleError(w, r, err, appointmentConstraints)
		return
	}

	h.successResponse(w, r, "更新预约成功", updated)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)

	if err := h.booking.DeleteAppointment(appt.ID); err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "取消预约成功", nil)
}

func (h *Handler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	query := r.URL.Query()

	date, err := civil.ParseDate(query.Get("date"))
	if err != nil {
		h.badRequest(w, r, errors.New("date 必须是 YYYY-MM-DD 格式的日期"))
		return
	}

	duration := 0
	if d := query.Get("duration"); d != "" {
		duration, err = strconv.Atoi(d)
		if err != nil || duration < 0 || duration > domain.MinutesPerDay {
			h.badRequest(w, r, fmt.Errorf("duration 必须是 0 到 %d 之间的整数", domain.MinutesPerDay))
			return
		}
	}

	slots, err := h.booking.FreeSlots(ownerID, date, duration)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	h.successResponse(w, r, "获取可预约时段成功", slots)
}
