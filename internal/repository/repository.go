package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) txContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// withTx 在事务中执行 fn，fn 返回错误时整个事务回滚
func (r *Repository) withTx(fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "开启事务", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "提交事务", Err: err}
	}

	return nil
}

// 预约时间段排他约束被违反时 PostgreSQL 返回的错误码
const exclusionViolation = "23P01"

// wrapErr 将底层错误转换为领域错误，sql.ErrNoRows 视为记录不存在
func wrapErr(op, entity string, id any, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return &domain.OverlapError{}
	}

	return &domain.PersistenceError{Op: op, Err: err}
}

// expectAffected 检查 Exec 的结果是否恰好影响了 expected 行
func expectAffected(op string, res sql.Result, expected int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	if affected != expected {
		return &domain.PersistenceError{Op: op, Expected: expected, Affected: affected}
	}
	return nil
}
