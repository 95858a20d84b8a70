package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("无效的 ID")
	}
	return id, nil
}

// loadErr 处理加载器中的查询错误，记录不存在时返回 404
func (h *Handler) loadErr(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		h.notFound(w, r, msg)
		return
	}
	h.internalServerError(w, r, err)
}

func (h *Handler) userInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.repository.GetUserByID(chi.URLParam(r, "id"))
		if err != nil {
			h.loadErr(w, r, err, "用户不存在")
			return
		}

		ctx := context.WithValue(r.Context(), UserInfoCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) businessInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := h.repository.GetBusinessByOwnerID(chi.URLParam(r, "ownerID"))
		if err != nil {
			h.loadErr(w, r, err, "商家不存在")
			return
		}

		ctx := context.WithValue(r.Context(), BusinessInfoCtx, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) serviceInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("服务ID无效"))
			return
		}

		s, err := h.repository.GetServiceByID(id)
		if err != nil {
			h.loadErr(w, r, err, "服务不存在")
			return
		}

		ctx := context.WithValue(r.Context(), ServiceInfoCtx, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) clientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("客户ID无效"))
			return
		}

		c, err := h.repository.GetClientByID(id)
		if err != nil {
			h.loadErr(w, r, err, "客户不存在")
			return
		}

		ctx := context.WithValue(r.Context(), ClientInfoCtx, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) appointmentInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("预约ID无效"))
			return
		}

		appt, err := h.booking.GetAppointment(id)
		if err != nil {
			h.loadErr(w, r, err, "预约不存在")
			return
		}

		ctx := context.WithValue(r.Context(), AppointmentInfoCtx, appt)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// workWeekID 只解析路径中的工作周 ID，是否存在由具体操作判断
func (h *Handler) workWeekID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("工作周ID无效"))
			return
		}

		ctx := context.WithValue(r.Context(), WorkWeekIDCtx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
