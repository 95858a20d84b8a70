package bookingtest

import (
	"slices"
	"sync"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type Cache struct {
	mu      sync.Mutex
	entries map[int64][]domain.DailySchedule
	Hits    int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int64][]domain.DailySchedule)}
}

func (c *Cache) GetWeeklySchedule(workWeekID int64) ([]domain.DailySchedule, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	days, ok := c.entries[workWeekID]
	if ok {
		c.Hits++
	}
	return slices.Clone(days), ok, nil
}

func (c *Cache) SetWeeklySchedule(workWeekID int64, days []domain.DailySchedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[workWeekID] = slices.Clone(days)
	return nil
}

func (c *Cache) DeleteWeeklySchedule(workWeekID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, workWeekID)
	return nil
}

// Notifier 记录所有发布过的消息
type Notifier struct {
	mu       sync.Mutex
	Messages []domain.MailMessage
	Err      error
}

func (n *Notifier) Publish(msg domain.MailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.Messages = append(n.Messages, msg)
	return nil
}

func (n *Notifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	types := make([]string, 0, len(n.Messages))
	for _, msg := range n.Messages {
		types = append(types, msg.Type)
	}
	return types
}
