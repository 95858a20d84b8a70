package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var serviceConstraints = map[string]string{
	"services_owner_id_name_key":   "服务名称已存在",
	"services_owner_id_fkey":       "用户不存在",
	"appointments_service_id_fkey": "该服务已有预约，无法删除",
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID     string  `json:"ownerID" validate:"required"`
		Name        string  `json:"name" validate:"required"`
		Description string  `json:"description"`
		Duration    int32   `json:"duration" validate:"required,gt=0,lte=1440"`
		Price       float64 `json:"price" validate:"gte=0"`
		ImageURL    string  `json:"imageURL" validate:"omitempty,url"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := &domain.Service{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if err := h.repository.CreateService(s); err != nil {
		h.handleError(w, r, err, serviceConstraints)
		return
	}

	h.successResponse(w, r, "创建服务成功", s)
}

func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerID")
	if ownerID == "" {
		h.badRequest(w, r, errors.New("缺少 ownerID 参数"))
		return
	}

	services, err := h.repository.GetServicesByOwnerID(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取服务列表成功", services)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(ServiceInfoCtx).(*domain.Service)
	h.successResponse(w, r, "获取服务成功", s)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(ServiceInfoCtx).(*domain.Service)

	var req struct {
		Name        *string  `json:"name" validate:"omitempty,min=1"`
		Description *string  `json:"description"`
		Duration    *int32   `json:"duration" validate:"omitempty,gt=0,lte=1440"`
		Price       *float64 `json:"price" validate:"omitempty,gte=0"`
		ImageURL    *string  `json:"imageURL" validate:"omitempty,url"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.ImageURL != nil {
		s.ImageURL = *req.ImageURL
	}

	if err := h.repository.UpdateService(s); err != nil {
		h.handleError(w, r, err, serviceConstraints)
		return
	}

	h.successResponse(w, r, "更新服务成功", s)
}

// DeleteService 删除服务并返回该商家剩余的服务
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("服务ID无效"))
		return
	}

	// 删除之后就查不到所属商家了，所以要先查
	ownerID, err := h.repository.GetOwnerIDByServiceID(id)
	if err != nil {
		h.handleError(w, r, err, nil)
		return
	}

	if err := h.repository.DeleteService(id); err != nil {
		h.handleError(w, r, err, serviceConstraints)
		return
	}

	services, err := h.repository.GetServicesByOwnerID(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除服务成功", services)
}
