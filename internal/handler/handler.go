package handler

import (
	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// Repository 是 handler 直接使用的增删改查接口，由 repository.Repository 实现
type Repository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)

	CreateBusiness(b *domain.Business) error
	GetBusinessByOwnerID(ownerID string) (*domain.Business, error)
	UpdateBusiness(b *domain.Business) error

	CreateService(s *domain.Service) error
	GetServicesByOwnerID(ownerID string) ([]*domain.Service, error)
	GetServiceByID(id int64) (*domain.Service, error)
	GetOwnerIDByServiceID(id int64) (string, error)
	UpdateService(s *domain.Service) error
	DeleteService(id int64) error

	CreateClient(c *domain.Client) error
	GetClientByID(id int64) (*domain.Client, error)
	GetClientsByOwnerID(ownerID string) ([]*domain.Client, error)
	GetClientIDByPhone(ownerID, phone string) (int64, bool, error)
	UpdateClient(c *domain.Client) error
	DeleteClient(id int64) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository Repository
	translator ut.Translator
	booking    *booking.Service
	composer   *booking.Composer

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, svc *booking.Service, composer *booking.Composer) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerCustomValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		booking:    svc,
		composer:   composer,

		Mux: chi.NewRouter(),
	}, nil
}

// registerCustomValidations 注册 clock（HH:MM）和 date（YYYY-MM-DD）两个校验标签及其中文提示
func registerCustomValidations(validate *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag   string
		fn    validator.Func
		label string
	}{
		{
			tag: "clock",
			fn: func(fl validator.FieldLevel) bool {
				_, err := domain.ParseClock(fl.Field().String())
				return err == nil
			},
			label: "{0}必须是 HH:MM 格式的时间",
		},
		{
			tag: "date",
			fn: func(fl validator.FieldLevel) bool {
				_, err := civil.ParseDate(fl.Field().String())
				return err == nil
			},
			label: "{0}必须是 YYYY-MM-DD 格式的日期",
		},
	}

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		label := rule.label
		tag := rule.tag
		register := func(ut ut.Translator) error {
			return ut.Add(tag, label, true)
		}
		translate := func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}
		if err := validate.RegisterTranslation(rule.tag, trans, register, translate); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.GetAllUsers)
		r.With(h.userInfo).Get("/{id}", h.GetUser)
	})

	h.Mux.Route("/businesses", func(r chi.Router) {
		r.Post("/", h.CreateBusiness)
		r.Route("/{ownerID}", func(r chi.Router) {
			r.Use(h.businessInfo)
			r.Get("/", h.GetBusiness)
			r.Patch("/", h.UpdateBusiness)
		})
	})

	h.Mux.Route("/services", func(r chi.Router) {
		r.Post("/", h.CreateService)
		r.Get("/", h.GetServices)
		r.Route("/{id}", func(r chi.Router) {
			r.With(h.serviceInfo).Get("/", h.GetService)
			r.With(h.serviceInfo).Patch("/", h.UpdateService)
			r.Delete("/", h.DeleteService)
		})
	})

	h.Mux.Route("/clients", func(r chi.Router) {
		r.Post("/", h.CreateClient)
		r.Get("/", h.GetClients)
		r.Get("/lookup", h.LookupClientByPhone)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.clientInfo)
			r.Get("/", h.GetClient)
			r.Patch("/", h.UpdateClient)
			r.Delete("/", h.DeleteClient)
			r.Get("/appointments", h.GetClientAppointments)
		})
	})

	h.Mux.Route("/work-weeks", func(r chi.Router) {
		r.Post("/", h.CreateWorkWeek)
		r.Get("/", h.GetWorkWeekID)
		r.Route("/{id}/days", func(r chi.Router) {
			r.Use(h.workWeekID)
			r.Post("/", h.CreateDailySchedules)
			r.Get("/", h.GetWeeklySchedule)
			r.Patch("/", h.UpdateDailySchedules)
		})
	})

	h.Mux.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.CreateAppointment)
		r.Get("/", h.GetAppointments)
		r.Post("/check-overlap", h.CheckOverlap)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.appointmentInfo)
			r.Get("/", h.GetAppointment)
			r.Patch("/", h.UpdateAppointment)
			r.Delete("/", h.DeleteAppointment)
		})
	})

	h.Mux.Get("/owners/{ownerID}/free-slots", h.GetFreeSlots)
}
