package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// Cache 基于 redis 实现周日程缓存和提醒去重
type Cache struct {
	config *config.Config
	rdb    redis.Cmdable
}

func NewCache(cfg *config.Config, rdb redis.Cmdable) *Cache {
	return &Cache{config: cfg, rdb: rdb}
}

func weeklyScheduleKey(workWeekID int64) string {
	return fmt.Sprintf("weekly_schedule_%d", workWeekID)
}

func reminderKey(appointmentID int64) string {
	return fmt.Sprintf("reminder_sent_%d", appointmentID)
}

func (c *Cache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(c.config.Redis.OperationExpiration)*time.Second)
}

func (c *Cache) GetWeeklySchedule(workWeekID int64) ([]domain.DailySchedule, bool, error) {
	ctx, cancel := c.opContext()
	defer cancel()

	data, err := c.rdb.Get(ctx, weeklyScheduleKey(workWeekID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	days := []domain.DailySchedule{}
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, false, err
	}
	return days, true, nil
}

func (c *Cache) SetWeeklySchedule(workWeekID int64, days []domain.DailySchedule) error {
	data, err := json.Marshal(days)
	if err != nil {
		return err
	}

	ctx, cancel := c.opContext()
	defer cancel()

	ttl := time.Duration(c.config.Redis.ScheduleCacheTTL) * time.Second
	return c.rdb.Set(ctx, weeklyScheduleKey(workWeekID), data, ttl).Err()
}

func (c *Cache) DeleteWeeklySchedule(workWeekID int64) error {
	ctx, cancel := c.opContext()
	defer cancel()

	return c.rdb.Del(ctx, weeklyScheduleKey(workWeekID)).Err()
}

// MarkReminderSent 返回 true 表示这是第一次标记，调用方可以发送提醒
func (c *Cache) MarkReminderSent(appointmentID int64, ttl time.Duration) (bool, error) {
	ctx, cancel := c.opContext()
	defer cancel()

	return c.rdb.SetNX(ctx, reminderKey(appointmentID), 1, ttl).Result()
}

// ClearReminder 在提醒发送失败时调用，使下一轮可以重试
func (c *Cache) ClearReminder(appointmentID int64) error {
	ctx, cancel := c.opContext()
	defer cancel()

	return c.rdb.Del(ctx, reminderKey(appointmentID)).Err()
}
