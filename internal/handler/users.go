package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var userConstraints = map[string]string{
	"users_pkey":      "用户已存在",
	"users_email_key": "邮箱已被使用",
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户列表成功", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string `json:"id" validate:"omitempty,max=128"`
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 没有外部身份提供方分配的 ID 时自行生成
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	user := &domain.User{
		ID:       req.ID,
		FullName: req.FullName,
		Email:    req.Email,
	}
	if err := h.repository.CreateUser(user); err != nil {
		h.handleError(w, r, err, userConstraints)
		return
	}

	h.successResponse(w, r, "用户创建成功", user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.successResponse(w, r, "获取用户信息成功", user)
}
