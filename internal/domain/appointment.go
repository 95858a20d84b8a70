package domain

import (
	"cloud.google.com/go/civil"
)

type Appointment struct {
	ID        int64      `json:"id"`
	OwnerID   string     `json:"ownerID"`
	ClientID  int64      `json:"clientID"`
	ServiceID int64      `json:"serviceID"`
	Date      civil.Date `json:"date"`
	StartTime Clock      `json:"startTime"`
	EndTime   Clock      `json:"endTime"`
	Note      string     `json:"note"`
	Version   int32      `json:"-"`
}

// AppointmentPatch 用于改约，为 nil 的字段保持原值
type AppointmentPatch struct {
	Date      *civil.Date
	StartTime *Clock
	EndTime   *Clock
	ServiceID *int64
	Note      *string
}

func (p AppointmentPatch) Apply(appt *Appointment) {
	if p.Date != nil {
		appt.Date = *p.Date
	}
	if p.StartTime != nil {
		appt.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		appt.EndTime = *p.EndTime
	}
	if p.ServiceID != nil {
		appt.ServiceID = *p.ServiceID
	}
	if p.Note != nil {
		appt.Note = *p.Note
	}
}
