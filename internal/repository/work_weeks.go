package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (r *Repository) CreateWorkWeek(ww *domain.WorkWeek) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		INSERT INTO work_weeks (owner_id)
		VALUES ($1)
		RETURNING id
	`

	if err := r.dbpool.QueryRowContext(ctx, query, ww.OwnerID).Scan(&ww.ID); err != nil {
		// RETURNING 没有返回行说明插入没有生效
		if err == sql.ErrNoRows {
			return &domain.PersistenceError{Op: "创建工作周", Expected: 1, Affected: 0}
		}
		return wrapErr("创建工作周", "工作周", nil, err)
	}

	return nil
}

// GetWorkWeekIDByOwnerID 每个商家只有一个工作周，由 work_weeks_owner_id_key 保证
func (r *Repository) GetWorkWeekIDByOwnerID(ownerID string) (int64, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `SELECT id FROM work_weeks WHERE owner_id = $1 ORDER BY id LIMIT 1`

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, ownerID).Scan(&id); err != nil {
		return 0, wrapErr("查询工作周", "商家的工作周", ownerID, err)
	}

	return id, nil
}

// CreateDailySchedules 在同一个事务中插入一周七天的日程，任何一天失败都会整体回滚
func (r *Repository) CreateDailySchedules(workWeekID int64, days []domain.DailySchedule) error {
	return r.withTx(func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO daily_schedules (work_week_id, day_of_week, start_time, end_time, is_work_day, slot_duration)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`

		for i := range days {
			params := []any{workWeekID, days[i].Day, days[i].StartTime, days[i].EndTime, days[i].IsWorkDay, days[i].SlotDuration}
			if err := tx.QueryRowContext(ctx, query, params...).Scan(&days[i].ID); err != nil {
				return wrapErr(fmt.Sprintf("创建 %s 的日程", days[i].Day), "工作周", workWeekID, err)
			}
			days[i].WorkWeekID = workWeekID
		}

		return nil
	})
}

func (r *Repository) GetDailySchedulesByWorkWeekID(workWeekID int64) ([]domain.DailySchedule, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, day_of_week, start_time, end_time, is_work_day, slot_duration
		FROM daily_schedules
		WHERE work_week_id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, workWeekID)
	if err != nil {
		return nil, wrapErr("查询周日程", "工作周", workWeekID, err)
	}
	defer rows.Close()

	days := make([]domain.DailySchedule, 0, len(domain.DaysOfWeek))
	for rows.Next() {
		day := domain.DailySchedule{WorkWeekID: workWeekID}
		dst := []any{&day.ID, &day.Day, &day.StartTime, &day.EndTime, &day.IsWorkDay, &day.SlotDuration}
		if err := rows.Scan(dst...); err != nil {
			return nil, wrapErr("查询周日程", "工作周", workWeekID, err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("查询周日程", "工作周", workWeekID, err)
	}

	return days, nil
}

// UpdateDailySchedules 覆盖每一天的四个可变字段，某一天不存在时整体回滚
func (r *Repository) UpdateDailySchedules(days []domain.DailySchedule) error {
	return r.withTx(func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE daily_schedules
			SET
				start_time = $1,
				end_time = $2,
				is_work_day = $3,
				slot_duration = $4
			WHERE id = $5
			RETURNING work_week_id, day_of_week
		`

		for i := range days {
			params := []any{days[i].StartTime, days[i].EndTime, days[i].IsWorkDay, days[i].SlotDuration, days[i].ID}
			if err := tx.QueryRowContext(ctx, query, params...).Scan(&days[i].WorkWeekID, &days[i].Day); err != nil {
				if err == sql.ErrNoRows {
					return &domain.PersistenceError{Op: fmt.Sprintf("更新日程 %d", days[i].ID), Expected: 1, Affected: 0}
				}
				return wrapErr(fmt.Sprintf("更新日程 %d", days[i].ID), "日程", days[i].ID, err)
			}
		}

		return nil
	})
}
