package booking_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	f := newFixture(t, booking.Options{})
	first := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")

	second := &domain.Appointment{
		OwnerID:   "owner-1",
		ClientID:  f.client.ID,
		ServiceID: 1,
		Date:      first.Date,
		StartTime: clock(t, "09:30"),
		EndTime:   clock(t, "10:30"),
	}
	err := f.svc.CreateAppointment(second)

	var overlapErr *domain.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, []int64{first.ID}, overlapErr.ConflictingIDs)

	appts, err := f.svc.ListAppointments("owner-1")
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t, booking.Options{})

	tests := []struct {
		name   string
		modify func(a *domain.Appointment)
	}{
		{"缺少商家", func(a *domain.Appointment) { a.OwnerID = "" }},
		{"缺少客户", func(a *domain.Appointment) { a.ClientID = 0 }},
		{"缺少服务", func(a *domain.Appointment) { a.ServiceID = 0 }},
		{"结束早于开始", func(a *domain.Appointment) { a.EndTime = a.StartTime - 30 }},
		{"零时长", func(a *domain.Appointment) { a.EndTime = a.StartTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &domain.Appointment{
				OwnerID:   "owner-1",
				ClientID:  f.client.ID,
				ServiceID: 1,
				Date:      date(t, "2024-03-01"),
				StartTime: clock(t, "09:00"),
				EndTime:   clock(t, "10:00"),
			}
			tt.modify(appt)

			var vErr *domain.ValidationError
			assert.ErrorAs(t, f.svc.CreateAppointment(appt), &vErr)
		})
	}
}

func TestConcurrentBookingOnlyOneSucceeds(t *testing.T) {
	f := newFixture(t, booking.Options{})

	const n = 20
	day, start, end := date(t, "2024-03-01"), clock(t, "09:00"), clock(t, "10:00")
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		overlaps  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.CreateAppointment(&domain.Appointment{
				OwnerID:   "owner-1",
				ClientID:  f.client.ID,
				ServiceID: 1,
				Date:      day,
				StartTime: start,
				EndTime:   end,
			})

			mu.Lock()
			defer mu.Unlock()
			var overlapErr *domain.OverlapError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &overlapErr):
				overlaps++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, overlaps)
}

func TestUpdateAppointmentKeepsUnpatchedFields(t *testing.T) {
	f := newFixture(t, booking.Options{})
	appt := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")

	note := "带上资料"
	updated, err := f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{Note: &note})
	require.NoError(t, err)

	assert.Equal(t, note, updated.Note)
	assert.Equal(t, appt.Date, updated.Date)
	assert.Equal(t, appt.StartTime, updated.StartTime)
	assert.Equal(t, appt.EndTime, updated.EndTime)

	stored, err := f.svc.GetAppointment(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, note, stored.Note)
}

func TestRescheduleIgnoresItself(t *testing.T) {
	f := newFixture(t, booking.Options{})
	appt := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")

	start, end := clock(t, "09:30"), clock(t, "10:30")
	updated, err := f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, start, updated.StartTime)
	assert.Equal(t, end, updated.EndTime)
}

func TestRescheduleIntoOtherAppointment(t *testing.T) {
	f := newFixture(t, booking.Options{})
	first := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
	second := f.book(t, "owner-1", "2024-03-01", "11:00", "12:00")

	start := clock(t, "09:30")
	end := clock(t, "10:30")
	_, err := f.svc.UpdateAppointment(second.ID, domain.AppointmentPatch{StartTime: &start, EndTime: &end})

	var overlapErr *domain.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, []int64{first.ID}, overlapErr.ConflictingIDs)

	stored, err := f.svc.GetAppointment(second.ID)
	require.NoError(t, err)
	assert.Equal(t, clock(t, "11:00"), stored.StartTime)
}

func TestRescheduleToAnotherDate(t *testing.T) {
	f := newFixture(t, booking.Options{})
	f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
	appt := f.book(t, "owner-1", "2024-03-02", "09:00", "10:00")

	// 03-01 的同一时段已经被占用
	newDate := date(t, "2024-03-01")
	_, err := f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{Date: &newDate})
	var overlapErr *domain.OverlapError
	assert.ErrorAs(t, err, &overlapErr)

	newDate = date(t, "2024-03-04")
	updated, err := f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)
}

func TestUpdateMissingAppointment(t *testing.T) {
	f := newFixture(t, booking.Options{})

	note := "x"
	_, err := f.svc.UpdateAppointment(42, domain.AppointmentPatch{Note: &note})
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t, booking.Options{})
	appt := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")

	require.NoError(t, f.svc.DeleteAppointment(appt.ID))

	_, err := f.svc.GetAppointment(appt.ID)
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
	assert.ErrorAs(t, f.svc.DeleteAppointment(appt.ID), &nfErr)

	// 删除之后同一时段可以重新预约
	f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
}

func TestAppointmentNotifications(t *testing.T) {
	f := newFixture(t, booking.Options{})
	appt := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")

	note := "只改备注"
	_, err := f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{Note: &note})
	require.NoError(t, err)

	start, end := clock(t, "10:00"), clock(t, "11:00")
	_, err = f.svc.UpdateAppointment(appt.ID, domain.AppointmentPatch{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteAppointment(appt.ID))

	// 只改备注不发送改约通知
	assert.Equal(t, []string{
		domain.MailTypeAppointmentBooked,
		domain.MailTypeAppointmentRescheduled,
		domain.MailTypeAppointmentCancelled,
	}, f.notifier.Types())

	msg := f.notifier.Messages[1]
	assert.Equal(t, f.client.Email, msg.To)
	data, ok := msg.Data.(domain.AppointmentMailData)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", data.Date)
	assert.Equal(t, "10:00", data.StartTime)
}

func TestNotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, booking.Options{})
	f.notifier.Err = errors.New("broker unavailable")

	appt := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
	assert.NotZero(t, appt.ID)
}

func TestListUpcomingAppointments(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)

	// UTC 时间 2024-03-01 20:00 在上海已经是 03-02
	f := newFixture(t, booking.Options{Location: loc, Now: fixedNow(t, "2024-03-01T20:00:00Z")})
	f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
	tomorrow := f.book(t, "owner-1", "2024-03-02", "09:00", "10:00")
	later := f.book(t, "owner-1", "2024-03-05", "09:00", "10:00")
	f.book(t, "owner-2", "2024-03-05", "09:00", "10:00")

	upcoming, err := f.svc.ListUpcomingAppointments("owner-1")
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, tomorrow.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)
}

func TestListAppointmentsOnDateAndClient(t *testing.T) {
	f := newFixture(t, booking.Options{})
	a := f.book(t, "owner-1", "2024-03-01", "11:00", "12:00")
	b := f.book(t, "owner-1", "2024-03-01", "09:00", "10:00")
	f.book(t, "owner-1", "2024-03-02", "09:00", "10:00")

	onDate, err := f.svc.ListAppointmentsOnDate("owner-1", date(t, "2024-03-01"))
	require.NoError(t, err)
	require.Len(t, onDate, 2)
	assert.Equal(t, b.ID, onDate[0].ID)
	assert.Equal(t, a.ID, onDate[1].ID)

	byClient, err := f.svc.ListClientAppointments(f.client.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 3)
}

func TestEnforceWorkingHours(t *testing.T) {
	f := newFixture(t, booking.Options{EnforceWorkingHours: true})

	appt := &domain.Appointment{
		OwnerID:   "owner-1",
		ClientID:  f.client.ID,
		ServiceID: 1,
		Date:      date(t, "2024-03-01"),
		StartTime: clock(t, "09:00"),
		EndTime:   clock(t, "10:00"),
	}
	var vErr *domain.ValidationError
	// 还没有设置营业时间
	require.ErrorAs(t, f.svc.CreateAppointment(appt), &vErr)

	f.setupWeek(t, "owner-1")
	require.NoError(t, f.svc.CreateAppointment(appt))

	late := *appt
	late.StartTime, late.EndTime = clock(t, "11:30"), clock(t, "12:30")
	assert.ErrorAs(t, f.svc.CreateAppointment(&late), &vErr)

	// 2024-03-02 是周六
	weekend := *appt
	weekend.Date = date(t, "2024-03-02")
	assert.ErrorAs(t, f.svc.CreateAppointment(&weekend), &vErr)
}
