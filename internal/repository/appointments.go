package repository

import (
	"context"
	"database/sql"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const appointmentColumns = `id, owner_id, client_id, service_id, date, start_time, end_time, note, version`

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	defer rows.Close()

	appts := []*domain.Appointment{}
	for rows.Next() {
		appt := &domain.Appointment{}
		var date time.Time
		dst := []any{
			&appt.ID,
			&appt.OwnerID,
			&appt.ClientID,
			&appt.ServiceID,
			&date,
			&appt.StartTime,
			&appt.EndTime,
			&appt.Note,
			&appt.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		// DATE 列以 UTC 零点返回，这里直接取年月日，不经过本地时区转换
		appt.Date = civil.DateOf(date)
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appts, nil
}

func (r *Repository) listAppointments(ctx context.Context, q queryer, op string, where string, args ...any) ([]*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ` + where

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, "预约", nil, err)
	}

	appts, err := scanAppointments(rows)
	if err != nil {
		return nil, wrapErr(op, "预约", nil, err)
	}

	return appts, nil
}

func (r *Repository) GetAppointmentByID(id int64) (*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	appts, err := r.listAppointments(ctx, r.dbpool, "查询预约", `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, &domain.NotFoundError{Entity: "预约", ID: id}
	}

	return appts[0], nil
}

func (r *Repository) GetAppointmentsByOwnerID(ownerID string) ([]*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.listAppointments(ctx, r.dbpool, "查询商家预约", `WHERE owner_id = $1 ORDER BY date, start_time`, ownerID)
}

func (r *Repository) GetAppointmentsByOwnerIDFrom(ownerID string, from civil.Date) ([]*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.listAppointments(ctx, r.dbpool, "查询商家未来预约", `WHERE owner_id = $1 AND date >= $2 ORDER BY date, start_time`, ownerID, from.String())
}

func (r *Repository) GetAppointmentsByOwnerAndDate(ownerID string, date civil.Date) ([]*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.listAppointments(ctx, r.dbpool, "查询商家当日预约", `WHERE owner_id = $1 AND date = $2 ORDER BY start_time`, ownerID, date.String())
}

func (r *Repository) GetAppointmentsByClientID(clientID int64) ([]*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.listAppointments(ctx, r.dbpool, "查询客户预约", `WHERE client_id = $1 ORDER BY date, start_time`, clientID)
}

// GetAppointmentsOnDate 返回所有商家在 date 当天的预约，供提醒任务使用
func (r *Repository) GetAppointmentsOnDate(date civil.Date) ([]*domain.Appointment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.listAppointments(ctx, r.dbpool, "查询当日预约", `WHERE date = $1 ORDER BY owner_id, start_time`, date.String())
}

// lockOwnerDate 对同一商家同一天加事务级咨询锁，使“检查冲突再写入”成为原子操作
func lockOwnerDate(ctx context.Context, tx *sql.Tx, ownerID string, date civil.Date) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ownerID+"|"+date.String()); err != nil {
		return &domain.PersistenceError{Op: "锁定预约日期", Err: err}
	}
	return nil
}

// InsertAppointmentExclusive 锁定商家当天的预约后交给 check 判断，check 通过才插入
func (r *Repository) InsertAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error {
	return r.withTx(func(ctx context.Context, tx *sql.Tx) error {
		if err := lockOwnerDate(ctx, tx, appt.OwnerID, appt.Date); err != nil {
			return err
		}

		sameDay, err := r.listAppointments(ctx, tx, "查询商家当日预约", `WHERE owner_id = $1 AND date = $2`, appt.OwnerID, appt.Date.String())
		if err != nil {
			return err
		}
		if err := check(sameDay); err != nil {
			return err
		}

		query := `
			INSERT INTO appointments (owner_id, client_id, service_id, date, start_time, end_time, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, version
		`
		args := []any{appt.OwnerID, appt.ClientID, appt.ServiceID, appt.Date.String(), appt.StartTime, appt.EndTime, appt.Note}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.Version); err != nil {
			return wrapErr("创建预约", "预约", nil, err)
		}

		return nil
	})
}

// UpdateAppointmentExclusive 与插入相同的加锁流程，写入时用 version 防止覆盖并发修改
func (r *Repository) UpdateAppointmentExclusive(appt *domain.Appointment, check func(sameDay []*domain.Appointment) error) error {
	return r.withTx(func(ctx context.Context, tx *sql.Tx) error {
		if err := lockOwnerDate(ctx, tx, appt.OwnerID, appt.Date); err != nil {
			return err
		}

		sameDay, err := r.listAppointments(ctx, tx, "查询商家当日预约", `WHERE owner_id = $1 AND date = $2`, appt.OwnerID, appt.Date.String())
		if err != nil {
			return err
		}
		if err := check(sameDay); err != nil {
			return err
		}

		query := `
			UPDATE appointments
			SET
				service_id = $1,
				date = $2,
				start_time = $3,
				end_time = $4,
				note = $5,
				version = version + 1
			WHERE id = $6 AND version = $7
			RETURNING version
		`
		args := []any{appt.ServiceID, appt.Date.String(), appt.StartTime, appt.EndTime, appt.Note, appt.ID, appt.Version}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&appt.Version); err != nil {
			if err == sql.ErrNoRows {
				return &domain.PersistenceError{Op: "更新预约", Expected: 1, Affected: 0}
			}
			return wrapErr("更新预约", "预约", appt.ID, err)
		}

		return nil
	})
}

func (r *Repository) DeleteAppointment(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return wrapErr("删除预约", "预约", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "删除预约", Err: err}
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "预约", ID: id}
	}

	return nil
}
