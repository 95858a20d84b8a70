package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var businessConstraints = map[string]string{
	"businesses_owner_id_key":  "该用户已经创建过商家",
	"businesses_owner_id_fkey": "用户不存在",
}

func (h *Handler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"ownerID" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone" validate:"omitempty,max=32"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	b := &domain.Business{
		OwnerID: req.OwnerID,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := h.repository.CreateBusiness(b); err != nil {
		h.handleError(w, r, err, businessConstraints)
		return
	}

	h.successResponse(w, r, "创建商家成功", b)
}

func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BusinessInfoCtx).(*domain.Business)
	h.successResponse(w, r, "获取商家信息成功", b)
}

// UpdateBusiness 整体覆盖商家的名称、地址和电话
func (h *Handler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BusinessInfoCtx).(*domain.Business)

	var req struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone" validate:"omitempty,max=32"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	b.Name = req.Name
	b.Address = req.Address
	b.Phone = req.Phone

	if err := h.repository.UpdateBusiness(b); err != nil {
		h.handleError(w, r, err, businessConstraints)
		return
	}

	h.successResponse(w, r, "更新商家信息成功", b)
}
