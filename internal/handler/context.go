package handler

type ContextKey string

var (
	UserInfoCtx        ContextKey = "userInfo"
	BusinessInfoCtx    ContextKey = "businessInfo"
	ServiceInfoCtx     ContextKey = "serviceInfo"
	ClientInfoCtx      ContextKey = "clientInfo"
	AppointmentInfoCtx ContextKey = "appointmentInfo"
	WorkWeekIDCtx      ContextKey = "workWeekID"
)
