package booking_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking/bookingtest"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func clock(t *testing.T, s string) domain.Clock {
	t.Helper()
	c, err := domain.ParseClock(s)
	require.NoError(t, err)
	return c
}

type fixture struct {
	store    *bookingtest.Store
	cache    *bookingtest.Cache
	notifier *bookingtest.Notifier
	composer *booking.Composer
	svc      *booking.Service
	client   *domain.Client
}

func newFixture(t *testing.T, opts booking.Options) *fixture {
	t.Helper()

	f := &fixture{
		store:    bookingtest.NewStore(),
		cache:    bookingtest.NewCache(),
		notifier: &bookingtest.Notifier{},
	}
	f.composer = booking.NewComposer(f.store, f.cache)
	f.svc = booking.NewService(f.store, f.store, f.composer, f.notifier, opts)

	f.client = &domain.Client{OwnerID: "owner-1", Name: "王伟", Phone: "13800000000", Email: "wangwei@example.com"}
	f.store.AddClient(f.client)
	return f
}

// weekdays 返回周一到周五 09:00-12:00 营业、周末休息的一周日程，名称留空
func weekdays(t *testing.T) []domain.DailySchedule {
	t.Helper()

	days := make([]domain.DailySchedule, 7)
	for i := range days {
		days[i] = domain.DailySchedule{
			StartTime:    clock(t, "09:00"),
			EndTime:      clock(t, "12:00"),
			IsWorkDay:    i != 0 && i != 6,
			SlotDuration: 30,
		}
	}
	return days
}

func (f *fixture) setupWeek(t *testing.T, ownerID string) int64 {
	t.Helper()

	workWeekID, err := f.composer.CreateWeek(ownerID)
	require.NoError(t, err)
	_, err = f.composer.CreateSevenDays(workWeekID, weekdays(t))
	require.NoError(t, err)
	return workWeekID
}

func (f *fixture) book(t *testing.T, ownerID, day, start, end string) *domain.Appointment {
	t.Helper()

	appt := &domain.Appointment{
		OwnerID:   ownerID,
		ClientID:  f.client.ID,
		ServiceID: 1,
		Date:      date(t, day),
		StartTime: clock(t, start),
		EndTime:   clock(t, end),
	}
	require.NoError(t, f.svc.CreateAppointment(appt))
	return appt
}

func fixedNow(t *testing.T, s string) func() time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return func() time.Time { return now }
}
