package booking

import (
	"log/slog"
	"slices"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/utils"
)

// Composer 负责工作周及其七天日程的创建、读取和修改
type Composer struct {
	store WeekStore
	cache ScheduleCache

	// 每次修改日程后递增，读取期间发生过修改的结果不回填缓存
	mu          sync.Mutex
	generations map[int64]uint64
}

// NewComposer 创建 Composer，cache 为 nil 时每次都直接读取数据库。
// 同一进程内修改后不会读到旧缓存；其他进程的修改最多在 REDIS_SCHEDULE_CACHE_TTL 内不可见。
func NewComposer(store WeekStore, cache ScheduleCache) *Composer {
	return &Composer{store: store, cache: cache, generations: make(map[int64]uint64)}
}

// CreateWeek 为商家创建一个空的工作周并返回其 ID
func (c *Composer) CreateWeek(ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, domain.NewValidationError("ownerID", "不能为空")
	}

	ww := &domain.WorkWeek{OwnerID: ownerID}
	if err := c.store.CreateWorkWeek(ww); err != nil {
		return 0, err
	}
	return ww.ID, nil
}

// CreateSevenDays 一次性创建一周七天的日程，按周日到周六的顺序返回新建的 ID。
// 没有填写星期名称的项按位置补全，填写了但与位置不符的视为参数错误。
func (c *Composer) CreateSevenDays(workWeekID int64, days []domain.DailySchedule) ([]int64, error) {
	if workWeekID <= 0 {
		return nil, domain.NewValidationError("workWeekID", "必须为正整数")
	}

	week := slices.Clone(days)
	for i := range week {
		if week[i].Day == "" && i < len(domain.DaysOfWeek) {
			week[i].Day = domain.DaysOfWeek[i]
		}
		week[i].WorkWeekID = workWeekID
	}
	if err := utils.ValidateSevenDays(week); err != nil {
		return nil, err
	}

	if err := c.store.CreateDailySchedules(workWeekID, week); err != nil {
		return nil, err
	}
	c.invalidate(workWeekID)

	ids := make([]int64, len(week))
	for i := range week {
		ids[i] = week[i].ID
	}
	return ids, nil
}

// ReadWeek 读取工作周的日程，结果按周日到周六排序
func (c *Composer) ReadWeek(workWeekID int64) ([]domain.DailySchedule, error) {
	if c.cache != nil {
		days, ok, err := c.cache.GetWeeklySchedule(workWeekID)
		if err != nil {
			slog.Warn("读取周日程缓存失败", "workWeekID", workWeekID, "error", err)
		} else if ok {
			return days, nil
		}
	}

	c.mu.Lock()
	generation := c.generations[workWeekID]
	c.mu.Unlock()

	days, err := c.store.GetDailySchedulesByWorkWeekID(workWeekID)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, &domain.NotFoundError{Entity: "工作周的日程", ID: workWeekID}
	}

	slices.SortFunc(days, func(a, b domain.DailySchedule) int {
		return a.Day.Index() - b.Day.Index()
	})

	if c.cache != nil {
		c.mu.Lock()
		if c.generations[workWeekID] == generation {
			if err := c.cache.SetWeeklySchedule(workWeekID, days); err != nil {
				slog.Warn("写入周日程缓存失败", "workWeekID", workWeekID, "error", err)
			}
		}
		c.mu.Unlock()
	}

	return days, nil
}

// UpdateDays 按 ID 修改若干天的营业时间，任何一天修改失败时所有修改都不生效
func (c *Composer) UpdateDays(changes []domain.DailySchedule) ([]domain.DailySchedule, error) {
	if len(changes) == 0 {
		return nil, domain.NewValidationError("days", "至少需要修改一天")
	}

	seen := make(map[int64]bool, len(changes))
	updated := slices.Clone(changes)
	for i := range updated {
		if updated[i].ID <= 0 {
			return nil, domain.NewValidationError("id", "第 %d 项的日程 ID 必须为正整数", i+1)
		}
		if seen[updated[i].ID] {
			return nil, domain.NewValidationError("id", "日程 %d 重复出现", updated[i].ID)
		}
		seen[updated[i].ID] = true

		if err := utils.ValidateDailySchedule(&updated[i]); err != nil {
			return nil, err
		}
	}

	if err := c.store.UpdateDailySchedules(updated); err != nil {
		return nil, err
	}

	invalidated := make(map[int64]bool)
	for _, day := range updated {
		if !invalidated[day.WorkWeekID] {
			c.invalidate(day.WorkWeekID)
			invalidated[day.WorkWeekID] = true
		}
	}

	return updated, nil
}

// WorkWeekID 返回商家的工作周 ID
func (c *Composer) WorkWeekID(ownerID string) (int64, error) {
	return c.store.GetWorkWeekIDByOwnerID(ownerID)
}

// DayOf 返回商家在 date 这一天对应的星期日程
func (c *Composer) DayOf(ownerID string, date civil.Date) (*domain.DailySchedule, error) {
	workWeekID, err := c.WorkWeekID(ownerID)
	if err != nil {
		return nil, err
	}

	days, err := c.ReadWeek(workWeekID)
	if err != nil {
		return nil, err
	}

	target := domain.DayOfWeekOf(date)
	for i := range days {
		if days[i].Day == target {
			return &days[i], nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "日程", ID: target}
}

func (c *Composer) invalidate(workWeekID int64) {
	if c.cache == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[workWeekID]++
	if err := c.cache.DeleteWeeklySchedule(workWeekID); err != nil {
		slog.Warn("删除周日程缓存失败", "workWeekID", workWeekID, "error", err)
	}
}
