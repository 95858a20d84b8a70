package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

type DayOfWeek string

const (
	Sunday    DayOfWeek = "Sunday"
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
)

// DaysOfWeek 是一周七天的规范顺序，与 time.Weekday 的取值一致
var DaysOfWeek = [7]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Index 返回该天在规范顺序中的下标，未知的名称返回 -1
func (d DayOfWeek) Index() int {
	for i, day := range DaysOfWeek {
		if day == d {
			return i
		}
	}
	return -1
}

func DayOfWeekOf(date civil.Date) DayOfWeek {
	return DaysOfWeek[date.In(time.UTC).Weekday()]
}

type WorkWeek struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"ownerID"`
}

type DailySchedule struct {
	ID           int64     `json:"id"`
	WorkWeekID   int64     `json:"workWeekID"`
	Day          DayOfWeek `json:"day"`
	StartTime    Clock     `json:"startTime"`
	EndTime      Clock     `json:"endTime"`
	IsWorkDay    bool      `json:"isWorkDay"`
	SlotDuration int32     `json:"slotDuration"` // 分钟
}
