package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusNotFound, msg)
}

func (h *Handler) conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusConflict, msg)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// handleError 按领域错误的类型选择响应，constraints 将数据库约束名映射为提示信息
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, constraints map[string]string) {
	var (
		vErr  *domain.ValidationError
		nfErr *domain.NotFoundError
		ovErr *domain.OverlapError
		pErr  *domain.PersistenceError
		pgErr *pgconn.PgError
	)

	switch {
	case errors.As(err, &vErr):
		h.errorResponse(w, r, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nfErr):
		h.notFound(w, r, nfErr.Error())
	case errors.As(err, &ovErr):
		h.writeJSON(w, r, http.StatusConflict, Response{
			Success: false,
			Message: "预约时间与已有预约冲突",
			Data:    map[string]any{"conflictingIDs": ovErr.ConflictingIDs},
		})
	case errors.As(err, &pgErr):
		msg, ok := constraints[pgErr.ConstraintName]
		if !ok {
			h.internalServerError(w, r, err)
			return
		}
		h.conflict(w, r, msg)
	case errors.As(err, &pErr) && pErr.Err == nil:
		// 影响行数不符，通常是记录被并发修改或删除
		h.logInternalServerError(r, err)
		h.conflict(w, r, "数据已被修改或删除，请重试")
	default:
		h.internalServerError(w, r, err)
	}
}
