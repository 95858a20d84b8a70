// Package bookingtest 提供 booking 包各个存储接口的内存实现，供测试使用
package bookingtest

import (
	"errors"
	"slices"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var ErrInjected = errors.New("injected failure")

// Store 用一把互斥锁保护所有数据，Exclusive 方法在持锁期间完成检查和写入
type Store struct {
	mu sync.Mutex

	nextID       int64
	appointments map[int64]domain.Appointment
	workWeeks    map[int64]domain.WorkWeek
	days         map[int64]domain.DailySchedule
	clients      map[int64]domain.Client

	// 创建日程时写到这一天就返回 ErrInjected
	FailOnDay domain.DayOfWeek
	// 更新日程时遇到这个 ID 就返回 ErrInjected
	FailOnScheduleID int64
}

func NewStore() *Store {
	return &Store{
		appointments: make(map[int64]domain.Appointment),
		workWeeks:    make(map[int64]domain.WorkWeek),
		days:         make(map[int64]domain.DailySchedule),
		clients:      make(map[int64]domain.Client),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) AddClient(c *domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.id()
	s.clients[c.ID] = *c
}

func (s *Store) GetClientByID(id int64) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "客户", ID: id}
	}
	return &c, nil
}

func (s *Store) filter(keep func(a *domain.Appointment) bool) []*domain.Appointment {
	res := []*domain.Appointment{}
	for _, a := range s.appointments {
		if keep(&a) {
			appt := a
			res = append(res, &appt)
		}
	}
	slices.SortFunc(res, func(a, b *domain.Appointment) int {
		if a.Date != b.Date {
			if a.Date.Before(b.Date) {
				return -1
			}
			return 1
		}
		if a.StartTime != b.StartTime {
			return int(a.StartTime - b.StartTime)
		}
		return int(a.ID - b.ID)
	})
	return res
}

func (s *Store) GetAppointmentByID(id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "预约", ID: id}
	}
	return &a, nil
}

func (s *Store) GetAppointmentsByOwnerID(ownerID string) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(a *domain.Appointment) bool { return a.OwnerID == ownerID }), nil
}

func (s *Store) GetAppointmentsByOwnerIDFrom(ownerID string, from civil.Date) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(a *domain.Appointment) bool {
		return a.OwnerID == ownerID && !a.Date.Before(from)
	}), nil
}

func (s *Store) GetAppointmentsByOwnerAndDate(ownerID string, date civil.Date) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sameDay(ownerID, date), nil
}

func (s *Store) GetAppointmentsOnDate(date civil.Date) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(a *domain.Appointment) bool { return a.Date == date }), nil
}

func (s *Store) sameDay(ownerID string, date civil.Date) []*domain.Appointment {
	return s.filter(func(a *domain.Appointment) bool { return a.OwnerID == ownerID && a.Date == date })
}

func (s *Store) GetAppointmentsByClientID(clientID int64) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(a *domain.Appointment) bool { return a.ClientID == clientID }), nil
}

func (s *Store) InsertAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := check(s.sameDay(appt.OwnerID, appt.Date)); err != nil {
		return err
	}

	appt.ID = s.id()
	appt.Version = 1
	s.appointments[appt.ID] = *appt
	return nil
}

func (s *Store) UpdateAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[appt.ID]
	if !ok || current.Version != appt.Version {
		return &domain.PersistenceError{Op: "更新预约", Expected: 1, Affected: 0}
	}
	if err := check(s.sameDay(appt.OwnerID, appt.Date)); err != nil {
		return err
	}

	appt.Version++
	s.appointments[appt.ID] = *appt
	return nil
}

func (s *Store) DeleteAppointment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return &domain.NotFoundError{Entity: "预约", ID: id}
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) CreateWorkWeek(ww *domain.WorkWeek) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ww.ID = s.id()
	s.workWeeks[ww.ID] = *ww
	return nil
}

func (s *Store) GetWorkWeekIDByOwnerID(ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found int64
	for id, ww := range s.workWeeks {
		if ww.OwnerID == ownerID && (found == 0 || id < found) {
			found = id
		}
	}
	if found == 0 {
		return 0, &domain.NotFoundError{Entity: "商家的工作周", ID: ownerID}
	}
	return found, nil
}

// CreateDailySchedules 先写入临时副本，全部成功后才合并，模拟事务回滚
func (s *Store) CreateDailySchedules(workWeekID int64, days []domain.DailySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workWeeks[workWeekID]; !ok {
		return &domain.PersistenceError{Op: "创建日程", Err: errors.New("work week does not exist")}
	}

	staged := make([]domain.DailySchedule, len(days))
	next := s.nextID
	for i, day := range days {
		if s.FailOnDay != "" && day.Day == s.FailOnDay {
			return &domain.PersistenceError{Op: "创建日程", Err: ErrInjected}
		}
		next++
		day.ID = next
		day.WorkWeekID = workWeekID
		staged[i] = day
	}

	s.nextID = next
	for i, day := range staged {
		s.days[day.ID] = day
		days[i].ID = day.ID
		days[i].WorkWeekID = workWeekID
	}
	return nil
}

func (s *Store) GetDailySchedulesByWorkWeekID(workWeekID int64) ([]domain.DailySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []domain.DailySchedule{}
	for _, day := range s.days {
		if day.WorkWeekID == workWeekID {
			res = append(res, day)
		}
	}
	// 与数据库一样不保证顺序
	slices.SortFunc(res, func(a, b domain.DailySchedule) int { return int(b.ID - a.ID) })
	return res, nil
}

func (s *Store) UpdateDailySchedules(days []domain.DailySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]domain.DailySchedule, len(days))
	for i, change := range days {
		if s.FailOnScheduleID != 0 && change.ID == s.FailOnScheduleID {
			return &domain.PersistenceError{Op: "更新日程", Err: ErrInjected}
		}
		current, ok := s.days[change.ID]
		if !ok {
			return &domain.PersistenceError{Op: "更新日程", Expected: 1, Affected: 0}
		}
		current.StartTime = change.StartTime
		current.EndTime = change.EndTime
		current.IsWorkDay = change.IsWorkDay
		current.SlotDuration = change.SlotDuration
		staged[i] = current
	}

	for i, day := range staged {
		s.days[day.ID] = day
		days[i] = day
	}
	return nil
}

// CountDailySchedules 返回当前的日程数量
func (s *Store) CountDailySchedules() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.days)
}
