package domain

const (
	MailTypeAppointmentBooked      = "appointment_booked"
	MailTypeAppointmentRescheduled = "appointment_rescheduled"
	MailTypeAppointmentCancelled   = "appointment_cancelled"
	MailTypeAppointmentReminder    = "appointment_reminder"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AppointmentMailData struct {
	ClientName    string `json:"clientName"`
	AppointmentID int64  `json:"appointmentID"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Note          string `json:"note"`
}

func NewAppointmentMail(mailType string, client *Client, appt *Appointment) MailMessage {
	return MailMessage{
		Type: mailType,
		To:   client.Email,
		Data: AppointmentMailData{
			ClientName:    client.Name,
			AppointmentID: appt.ID,
			Date:          appt.Date.String(),
			StartTime:     appt.StartTime.String(),
			EndTime:       appt.EndTime.String(),
			Note:          appt.Note,
		},
	}
}
