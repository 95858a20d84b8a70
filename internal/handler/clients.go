package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var clientConstraints = map[string]string{
	"clients_owner_id_phone_key":  "该手机号已经登记过客户",
	"clients_owner_id_fkey":       "用户不存在",
	"appointments_client_id_fkey": "该客户还有预约，无法删除",
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"ownerID" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Phone   string `json:"phone" validate:"required,max=32"`
		Email   string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	c := &domain.Client{
		OwnerID: req.OwnerID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := h.repository.CreateClient(c); err != nil {
		h.handleError(w, r, err, clientConstraints)
		return
	}

	h.successResponse(w, r, "创建客户成功", c)
}

func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerID")
	if ownerID == "" {
		h.badRequest(w, r, errors.New("缺少 ownerID 参数"))
		return
	}

	clients, err := h.repository.GetClientsByOwnerID(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取客户列表成功", clients)
}

func (h *Handler) LookupClientByPhone(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerID")
	phone := r.URL.Query().Get("phone")
	if ownerID == "" || phone == "" {
		h.badRequest(w, r, errors.New("缺少 ownerID 或 phone 参数"))
		return
	}

	id, exists, err := h.repository.GetClientIDByPhone(ownerID, phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "查询客户成功", map[string]any{
		"exists": exists,
		"id":     id,
	})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c := r.Context().Value(ClientInfoCtx).(*domain.Client)
	h.successResponse(w, r, "获取客户成功", c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	c := r.Context().Value(ClientInfoCtx).(*domain.Client)

	var req struct {
		Name  *string `json:"name" validate:"omitempty,min=1"`
		Phone *string `json:"phone" validate:"omitempty,min=1,max=32"`
		Email *string `json:"email" validate:"omitempty,email"`
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
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}

	if err := h.repository.UpdateClient(c); err != nil {
		h.handleError(w, r, err, clientConstraints)
		return
	}

	h.successResponse(w, r, "更新客户成功", c)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	c := r.Context().Value(ClientInfoCtx).(*domain.Client)

	if err := h.repository.DeleteClient(c.ID); err != nil {
		h.handleError(w, r, err, clientConstraints)
		return
	}

	h.successResponse(w, r, "删除客户成功", nil)
}

func (h *Handler) GetClientAppointments(w http.ResponseWriter, r *http.Request) {
	c := r.Context().Value(ClientInfoCtx).(*domain.Client)

	appts, err := h.booking.ListClientAppointments(c.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取客户预约成功", appts)
}
