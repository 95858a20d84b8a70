package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking/bookingtest"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func TestCreateSevenDaysRoundTrip(t *testing.T) {
	f := newFixture(t, booking.Options{})

	workWeekID, err := f.composer.CreateWeek("owner-1")
	require.NoError(t, err)

	input := weekdays(t)
	ids, err := f.composer.CreateSevenDays(workWeekID, input)
	require.NoError(t, err)
	require.Len(t, ids, 7)

	week, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	require.Len(t, week, 7)

	for i, day := range week {
		assert.Equal(t, domain.DaysOfWeek[i], day.Day)
		assert.Equal(t, ids[i], day.ID)
		assert.Equal(t, workWeekID, day.WorkWeekID)
		assert.Equal(t, input[i].StartTime, day.StartTime)
		assert.Equal(t, input[i].EndTime, day.EndTime)
		assert.Equal(t, input[i].IsWorkDay, day.IsWorkDay)
		assert.Equal(t, input[i].SlotDuration, day.SlotDuration)
	}

	got, err := f.composer.WorkWeekID("owner-1")
	require.NoError(t, err)
	assert.Equal(t, workWeekID, got)
}

func TestCreateSevenDaysValidation(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID, err := f.composer.CreateWeek("owner-1")
	require.NoError(t, err)

	tests := []struct {
		name string
		days func() []domain.DailySchedule
	}{
		{"少于七天", func() []domain.DailySchedule { return weekdays(t)[:6] }},
		{"多于七天", func() []domain.DailySchedule { return append(weekdays(t), domain.DailySchedule{}) }},
		{"名称与位置不符", func() []domain.DailySchedule {
			days := weekdays(t)
			days[1].Day = domain.Friday
			return days
		}},
		{"结束早于开始", func() []domain.DailySchedule {
			days := weekdays(t)
			days[2].EndTime = days[2].StartTime
			return days
		}},
		{"工作日没有时段长度", func() []domain.DailySchedule {
			days := weekdays(t)
			days[3].SlotDuration = 0
			return days
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.composer.CreateSevenDays(workWeekID, tt.days())
			var vErr *domain.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
	assert.Zero(t, f.store.CountDailySchedules())
}

func TestCreateSevenDaysIsAllOrNothing(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID, err := f.composer.CreateWeek("owner-1")
	require.NoError(t, err)

	f.store.FailOnDay = domain.Wednesday
	_, err = f.composer.CreateSevenDays(workWeekID, weekdays(t))
	assert.ErrorIs(t, err, bookingtest.ErrInjected)
	assert.Zero(t, f.store.CountDailySchedules())

	_, err = f.composer.ReadWeek(workWeekID)
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestCreateSevenDaysDoesNotMutateInput(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID, err := f.composer.CreateWeek("owner-1")
	require.NoError(t, err)

	input := weekdays(t)
	_, err = f.composer.CreateSevenDays(workWeekID, input)
	require.NoError(t, err)
	for _, day := range input {
		assert.Zero(t, day.ID)
		assert.Empty(t, day.Day)
	}
}

func TestUpdateSingleDay(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID := f.setupWeek(t, "owner-1")

	before, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)

	monday := before[1]
	monday.StartTime = clock(t, "13:00")
	monday.EndTime = clock(t, "18:00")
	monday.SlotDuration = 60

	updated, err := f.composer.UpdateDays([]domain.DailySchedule{monday})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, domain.Monday, updated[0].Day)
	assert.Equal(t, workWeekID, updated[0].WorkWeekID)

	after, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	for i := range after {
		if i == 1 {
			assert.Equal(t, clock(t, "13:00"), after[i].StartTime)
			assert.Equal(t, clock(t, "18:00"), after[i].EndTime)
			assert.Equal(t, int32(60), after[i].SlotDuration)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
}

func TestUpdateDaysIsAllOrNothing(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID := f.setupWeek(t, "owner-1")

	before, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)

	monday, tuesday := before[1], before[2]
	monday.IsWorkDay = false
	tuesday.IsWorkDay = false
	f.store.FailOnScheduleID = tuesday.ID

	_, err = f.composer.UpdateDays([]domain.DailySchedule{monday, tuesday})
	require.Error(t, err)

	after, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateDaysValidation(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID := f.setupWeek(t, "owner-1")
	week, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)

	var vErr *domain.ValidationError

	_, err = f.composer.UpdateDays(nil)
	assert.ErrorAs(t, err, &vErr)

	_, err = f.composer.UpdateDays([]domain.DailySchedule{week[1], week[1]})
	assert.ErrorAs(t, err, &vErr)

	bad := week[1]
	bad.EndTime = bad.StartTime - 60
	_, err = f.composer.UpdateDays([]domain.DailySchedule{bad})
	assert.ErrorAs(t, err, &vErr)

	missing := week[1]
	missing.ID = 9999
	_, err = f.composer.UpdateDays([]domain.DailySchedule{missing})
	var pErr *domain.PersistenceError
	assert.ErrorAs(t, err, &pErr)
}

func TestReadWeekUsesCache(t *testing.T) {
	f := newFixture(t, booking.Options{})
	workWeekID := f.setupWeek(t, "owner-1")

	first, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	second, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.Hits)

	// 修改之后缓存失效
	friday := first[5]
	friday.IsWorkDay = false
	_, err = f.composer.UpdateDays([]domain.DailySchedule{friday})
	require.NoError(t, err)

	third, err := f.composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.False(t, third[5].IsWorkDay)
	assert.Equal(t, 1, f.cache.Hits)
}

func TestCreateWeekRequiresOwner(t *testing.T) {
	f := newFixture(t, booking.Options{})

	_, err := f.composer.CreateWeek("")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = f.composer.WorkWeekID("nobody")
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// interleavedStore 在读取日程之后、返回之前执行一次 afterRead，模拟读取期间的并发修改
type interleavedStore struct {
	*bookingtest.Store
	afterRead func()
}

func (s *interleavedStore) GetDailySchedulesByWorkWeekID(workWeekID int64) ([]domain.DailySchedule, error) {
	days, err := s.Store.GetDailySchedulesByWorkWeekID(workWeekID)
	if fn := s.afterRead; fn != nil {
		s.afterRead = nil
		fn()
	}
	return days, err
}

func TestReadWeekDoesNotCacheRowsReadBeforeUpdate(t *testing.T) {
	store := &interleavedStore{Store: bookingtest.NewStore()}
	cache := bookingtest.NewCache()
	composer := booking.NewComposer(store, cache)

	workWeekID, err := composer.CreateWeek("owner-1")
	require.NoError(t, err)
	ids, err := composer.CreateSevenDays(workWeekID, weekdays(t))
	require.NoError(t, err)

	store.afterRead = func() {
		_, err := composer.UpdateDays([]domain.DailySchedule{{ID: ids[5], IsWorkDay: false}})
		require.NoError(t, err)
	}

	// 这一次读到的是修改之前的数据，但不能写回缓存
	stale, err := composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.True(t, stale[5].IsWorkDay)

	fresh, err := composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.False(t, fresh[5].IsWorkDay)
	assert.Equal(t, 0, cache.Hits)

	cached, err := composer.ReadWeek(workWeekID)
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
	assert.Equal(t, 1, cache.Hits)
}
