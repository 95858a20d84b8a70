package booking_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking/bookingtest"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func clocks(t *testing.T, ss ...string) []domain.Clock {
	t.Helper()
	res := make([]domain.Clock, 0, len(ss))
	for _, s := range ss {
		res = append(res, clock(t, s))
	}
	return res
}

func TestFreeSlots(t *testing.T) {
	f := newFixture(t, booking.Options{})
	f.setupWeek(t, "owner-1")
	f.book(t, "owner-1", "2024-03-01", "10:00", "11:00")

	// 2024-03-01 是周五，营业时间 09:00-12:00，时段 30 分钟
	slots, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), 0)
	require.NoError(t, err)
	assert.Equal(t, clocks(t, "09:00", "09:30", "11:00", "11:30"), slots)

	slots, err = f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), 60)
	require.NoError(t, err)
	assert.Equal(t, clocks(t, "09:00", "11:00"), slots)

	// 其他日期的预约不影响
	slots, err = f.svc.FreeSlots("owner-1", date(t, "2024-03-04"), 0)
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestFreeSlotsOnDayOff(t *testing.T) {
	f := newFixture(t, booking.Options{})
	f.setupWeek(t, "owner-1")

	slots, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-02"), 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsSkipsPastToday(t *testing.T) {
	f := newFixture(t, booking.Options{Now: fixedNow(t, "2024-03-01T10:10:00Z")})
	f.setupWeek(t, "owner-1")

	slots, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), 0)
	require.NoError(t, err)
	assert.Equal(t, clocks(t, "10:30", "11:00", "11:30"), slots)
}

func TestFreeSlotsWithoutWeek(t *testing.T) {
	f := newFixture(t, booking.Options{})

	_, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), 0)
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	_, err = f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), -5)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestFreeSlotsRejectsOutOfRangeDuration(t *testing.T) {
	f := newFixture(t, booking.Options{})
	f.setupWeek(t, "owner-1")

	for _, d := range []int{-1, domain.MinutesPerDay + 1, math.MaxInt - 100} {
		_, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), d)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr, "duration=%d", d)
	}

	// 整天的时长合法，只是放不下
	slots, err := f.svc.FreeSlots("owner-1", date(t, "2024-03-01"), domain.MinutesPerDay)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsWithoutComposer(t *testing.T) {
	svc := booking.NewService(bookingtest.NewStore(), nil, nil, nil, booking.Options{})

	_, err := svc.FreeSlots("owner-1", date(t, "2024-03-01"), 0)
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
