package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Clock 表示一天之内的某个时刻，单位为自午夜起的分钟数
type Clock int

const MinutesPerDay = 24 * 60

// ParseClock 解析两位数的 "HH:MM"，"24:00" 表示当天结束的时刻
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("无效的时间格式 %q，应为 HH:MM", s)
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if minute >= 60 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("无效的时间 %q", s)
	}
	return Clock(hour*60 + minute), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan 兼容 pgx 对 TIME 列返回的字符串以及 time.Time，秒及以下的部分被舍弃
func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(minutesOnly(v)))
	case []byte:
		return c.UnmarshalText([]byte(minutesOnly(string(v))))
	case time.Time:
		*c = Clock(v.Hour()*60 + v.Minute())
		return nil
	default:
		return fmt.Errorf("无法将 %T 转换为 Clock", src)
	}
}

func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

// "09:00:00.000000" -> "09:00"
func minutesOnly(s string) string {
	if len(s) > 5 && s[5] == ':' {
		return s[:5]
	}
	return s
}
